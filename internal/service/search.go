package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/history"
	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/search"
)

// 搜索类型，用作指标标签
const (
	kindEmails = "emails"
	kindGlobal = "global"
	kindList   = "list"
	kindDrafts = "drafts"
)

// Source 搜索使用的数据来源，由 *workspace.Workspace 实现
type Source interface {
	CurrentEmails(ctx context.Context) ([]domain.Email, error)
	Drafts() []domain.Draft
	Actions() []domain.ActionItem
}

// SearchService 搜索服务
//
// 在工作区数据上执行查询解析、过滤、打分与高亮，并记录全局搜索历史。
type SearchService struct {
	source  Source
	history history.Store
	metrics *monitoring.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// SearchHistory 搜索历史与统计
type SearchHistory struct {
	Recent []string         `json:"recent"`
	Counts map[string]int64 `json:"counts"`
}

// NewSearchService 创建搜索服务
//
// 参数:
//   - source: 数据来源
//   - store: 搜索历史存储，为 nil 时使用内存存储
//   - metrics: 监控指标，可为 nil
//   - logger: 日志记录器，可为 nil
func NewSearchService(source Source, store history.Store, metrics *monitoring.Metrics, logger *zap.Logger) *SearchService {
	if store == nil {
		store = history.NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		source:  source,
		history: store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SearchEmails 返回按相关度排序的全部匹配邮件，附带高亮
//
// 参数:
//   - ctx: 上下文
//   - query: 原始查询字符串
//
// 返回值:
//   - []search.EmailHit: 搜索结果，没有匹配时为空切片
//   - error: 加载邮件失败时返回
func (s *SearchService) SearchEmails(ctx context.Context, query string) ([]search.EmailHit, error) {
	start := time.Now()

	emails, err := s.source.CurrentEmails(ctx)
	if err != nil {
		return nil, err
	}

	ranked := search.SearchAt(query, emails, s.now())
	hits := make([]search.EmailHit, 0, len(ranked))
	for _, se := range ranked {
		hits = append(hits, search.EmailHit{
			ScoredEmail: se,
			SubjectHTML: search.Highlight(se.Subject, query),
			SnippetHTML: search.Highlight(search.Snippet(se.Body, search.SnippetLength), query),
		})
	}

	s.observe(kindEmails, start, len(hits))
	return hits, nil
}

// Global 执行全局搜索面板的查询并记录搜索历史
//
// 历史记录写入失败只记录日志，不影响搜索结果。
func (s *SearchService) Global(ctx context.Context, query string) (search.GlobalResult, error) {
	start := time.Now()

	emails, err := s.source.CurrentEmails(ctx)
	if err != nil {
		return search.GlobalResult{}, err
	}

	result := search.Global(query, emails, s.source.Drafts(), s.source.Actions(), s.now())

	if err := s.history.Record(ctx, query); err != nil {
		s.logger.Warn("failed to record search history",
			zap.String("query", query),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.RecordHistoryFailure()
		}
	}

	s.observe(kindGlobal, start, result.Total())
	return result, nil
}

// ListEmails 按收件箱列表视图的条件过滤并排序邮件
func (s *SearchService) ListEmails(ctx context.Context, opts search.ListOptions) ([]domain.Email, error) {
	start := time.Now()

	emails, err := s.source.CurrentEmails(ctx)
	if err != nil {
		return nil, err
	}

	out := search.FilterEmails(emails, opts)
	s.observe(kindList, start, len(out))
	return out, nil
}

// Categories 返回当前邮件中出现的分类
func (s *SearchService) Categories(ctx context.Context) ([]string, error) {
	emails, err := s.source.CurrentEmails(ctx)
	if err != nil {
		return nil, err
	}
	return search.EmailCategories(emails), nil
}

// ListDrafts 按草稿列表视图的条件过滤并排序工作区中的草稿
func (s *SearchService) ListDrafts(opts search.DraftListOptions) []domain.Draft {
	start := time.Now()
	out := search.FilterDrafts(s.source.Drafts(), opts)
	s.observe(kindDrafts, start, len(out))
	return out
}

// Highlight 高亮 text 中与 query 匹配的部分
func (s *SearchService) Highlight(text, query string) string {
	return search.Highlight(text, query)
}

// History 返回最近的搜索与查询统计
func (s *SearchService) History(ctx context.Context) (SearchHistory, error) {
	recent, err := s.history.Recent(ctx)
	if err != nil {
		return SearchHistory{}, err
	}
	counts, err := s.history.Counts(ctx)
	if err != nil {
		return SearchHistory{}, err
	}
	return SearchHistory{Recent: recent, Counts: counts}, nil
}

// ClearHistory 清空搜索历史
func (s *SearchService) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

func (s *SearchService) observe(kind string, start time.Time, results int) {
	if s.metrics != nil {
		s.metrics.RecordSearch(kind, time.Since(start), results)
	}
}
