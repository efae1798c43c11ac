// Package workspace 缓存代理服务返回的邮件、提示词、草稿、待办与统计数据，
// 并在每次变更后按固定规则重新加载受影响的部分。
package workspace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailagent/dashboard/internal/agentapi"
	"mailagent/dashboard/internal/cache"
	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/pool"
)

// API 工作区依赖的代理服务接口，由 *agentapi.Client 实现
type API interface {
	ListEmails(ctx context.Context, filter domain.EmailFilter) ([]domain.Email, error)
	GetEmail(ctx context.Context, id int64) (*domain.Email, error)
	LoadMockEmails(ctx context.Context) (domain.ProcessSummary, error)
	ProcessAllEmails(ctx context.Context) (domain.ProcessSummary, error)
	ProcessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error)
	ReprocessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error)
	DeleteEmail(ctx context.Context, id int64) error
	EmailStats(ctx context.Context) (domain.EmailStats, error)

	ListPrompts(ctx context.Context) ([]domain.Prompt, error)
	CreatePrompt(ctx context.Context, input domain.CreatePromptInput) (*domain.Prompt, error)
	UpdatePrompt(ctx context.Context, id int64, input domain.UpdatePromptInput) (*domain.Prompt, error)
	DeletePrompt(ctx context.Context, id int64) error
	ResetPrompts(ctx context.Context) error

	GenerateDraft(ctx context.Context, emailID int64, instructions string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, emailID int64) ([]domain.Draft, error)
	UpdateDraft(ctx context.Context, id int64, input domain.UpdateDraftInput) (*domain.Draft, error)
	DeleteDraft(ctx context.Context, id int64) error

	ListActions(ctx context.Context, status domain.ActionStatus) ([]domain.ActionItem, error)
	ListActionsByEmail(ctx context.Context, emailID int64) ([]domain.ActionItem, error)
	CreateAction(ctx context.Context, input domain.CreateActionInput) (*domain.ActionItem, error)
	UpdateActionStatus(ctx context.Context, id int64, status domain.ActionStatus) (*domain.ActionItem, error)
	ActionStats(ctx context.Context) (domain.ActionStats, error)
}

// 各操作失败时的默认提示
const (
	MsgLoadEmails     = "Failed to load emails"
	MsgLoadEmail      = "Failed to load email details"
	MsgProcessEmails  = "Failed to process emails"
	MsgProcessEmail   = "Failed to process email"
	MsgLoadMock       = "Failed to load mock emails"
	MsgDeleteEmail    = "Failed to delete email"
	MsgReprocessEmail = "Failed to reprocess email"
	MsgLoadPrompts    = "Failed to load prompts"
	MsgCreatePrompt   = "Failed to create prompt"
	MsgUpdatePrompt   = "Failed to update prompt"
	MsgDeletePrompt   = "Failed to delete prompt"
	MsgResetPrompts   = "Failed to reset prompts"
	MsgLoadDrafts     = "Failed to load drafts"
	MsgGenerateDraft  = "Failed to generate draft"
	MsgUpdateDraft    = "Failed to update draft"
	MsgDeleteDraft    = "Failed to delete draft"
	MsgLoadActions    = "Failed to load action items"
	MsgCreateAction   = "Failed to create action item"
	MsgUpdateAction   = "Failed to update action status"
	MsgLoadStats      = "Failed to load statistics"
	MsgInitialize     = "Failed to initialize data"
)

// emailsCacheKey 完整邮件列表在 L1 缓存中的键
const emailsCacheKey = "workspace:emails"

// Config 工作区配置
type Config struct {
	Logger   *zap.Logger
	Metrics  *monitoring.Metrics
	Cache    *cache.LocalCache // 为 nil 时不缓存邮件列表
	CacheTTL time.Duration
	Pool     *pool.WorkerPool // 为 nil 时批量操作顺序执行
	Notifier Notifier
}

// Workspace 代理服务数据的本地视图
//
// 所有读取方法返回副本；并发安全。
type Workspace struct {
	api      API
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	cache    *cache.LocalCache
	cacheTTL time.Duration
	pool     *pool.WorkerPool
	notifier Notifier

	loading atomic.Int32

	mu       sync.RWMutex
	emails   []domain.Email
	selected *domain.Email
	prompts  []domain.Prompt
	drafts   []domain.Draft
	actions  []domain.ActionItem
	stats    domain.Stats
	lastErr  string
	loadedAt time.Time
}

// Snapshot 工作区状态快照
type Snapshot struct {
	Emails   []domain.Email      `json:"emails"`
	Selected *domain.Email       `json:"selectedEmail"`
	Prompts  []domain.Prompt     `json:"prompts"`
	Drafts   []domain.Draft      `json:"drafts"`
	Actions  []domain.ActionItem `json:"actions"`
	Stats    domain.Stats        `json:"stats"`
	Error    string              `json:"error,omitempty"`
	Loading  bool                `json:"loading"`
	LoadedAt time.Time           `json:"loadedAt"`
}

// New 创建工作区
func New(api API, cfg Config) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &Workspace{
		api:      api,
		logger:   logger,
		metrics:  cfg.Metrics,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		pool:     cfg.Pool,
		notifier: notifier,
		emails:   []domain.Email{},
		prompts:  []domain.Prompt{},
		drafts:   []domain.Draft{},
		actions:  []domain.ActionItem{},
		stats:    domain.Stats{Emails: domain.EmailStats{}, Actions: domain.ActionStats{}},
	}
}

// Initialize 并发加载邮件、提示词、草稿、待办与统计
//
// 各部分互不影响，全部完成后返回第一个错误。
func (w *Workspace) Initialize(ctx context.Context) error {
	done := w.begin()
	defer done()

	var g errgroup.Group
	g.Go(func() error { return w.LoadEmails(ctx, domain.EmailFilter{}) })
	g.Go(func() error { return w.LoadPrompts(ctx) })
	g.Go(func() error { return w.LoadDrafts(ctx, 0) })
	g.Go(func() error { return w.LoadActions(ctx, 0) })
	g.Go(func() error { return w.RefreshStats(ctx) })

	err := g.Wait()

	w.mu.Lock()
	w.loadedAt = time.Now()
	w.mu.Unlock()

	if err != nil {
		// 并发加载时各自会先清除错误，这里以第一个失败为准
		w.setError(agentapi.Message(err, MsgInitialize))
		return fmt.Errorf("initialize workspace: %w", err)
	}
	w.logger.Info("Workspace initialized", zap.Int("emails", len(w.Emails())))
	return nil
}

// Snapshot 返回当前状态的副本
func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Snapshot{
		Emails:   clone(w.emails),
		Selected: cloneEmail(w.selected),
		Prompts:  clone(w.prompts),
		Drafts:   clone(w.drafts),
		Actions:  clone(w.actions),
		Stats:    w.stats,
		Error:    w.lastErr,
		Loading:  w.Loading(),
		LoadedAt: w.loadedAt,
	}
}

// Emails 返回当前邮件列表副本
func (w *Workspace) Emails() []domain.Email {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.emails)
}

// Selected 返回当前选中的邮件，没有时返回 nil
func (w *Workspace) Selected() *domain.Email {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneEmail(w.selected)
}

// Prompts 返回提示词副本
func (w *Workspace) Prompts() []domain.Prompt {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.prompts)
}

// Drafts 返回草稿副本
func (w *Workspace) Drafts() []domain.Draft {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.drafts)
}

// Actions 返回待办事项副本
func (w *Workspace) Actions() []domain.ActionItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return clone(w.actions)
}

// Stats 返回统计数据
func (w *Workspace) Stats() domain.Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Error 返回最近一次失败的提示，没有时为空
func (w *Workspace) Error() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// ClearError 清除错误提示
func (w *Workspace) ClearError() {
	w.setError("")
}

// Loading 是否有操作正在进行
func (w *Workspace) Loading() bool {
	return w.loading.Load() > 0
}

// begin 标记操作开始并清除错误，返回结束函数
func (w *Workspace) begin() func() {
	w.loading.Add(1)
	w.setError("")
	return func() { w.loading.Add(-1) }
}

func (w *Workspace) setError(msg string) {
	w.mu.Lock()
	w.lastErr = msg
	w.mu.Unlock()
}

// fail 记录失败提示并返回包装后的错误
func (w *Workspace) fail(op string, err error, fallback string) error {
	return w.failWith(op, err, agentapi.Message(err, fallback))
}

// failWith 使用固定提示记录失败
func (w *Workspace) failWith(op string, err error, msg string) error {
	w.setError(msg)

	w.logger.Warn("Workspace operation failed",
		zap.String("op", op),
		zap.String("message", msg),
		zap.Error(err),
	)
	if w.metrics != nil {
		w.metrics.RecordError(op, "workspace")
	}
	w.notifier.Publish(newEvent(EventError, map[string]string{"op": op, "message": msg}))

	return fmt.Errorf("%s: %w", op, err)
}

// reloaded 记录资源重新加载
func (w *Workspace) reloaded(resource string) {
	if w.metrics != nil {
		w.metrics.RecordWorkspaceReload(resource)
	}
}

func clone[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}

func cloneEmail(e *domain.Email) *domain.Email {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
