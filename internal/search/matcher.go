package search

import (
	"sort"
	"strings"
	"time"

	"mailagent/dashboard/internal/domain"
)

// 相关度权重
const (
	WeightSubject  = 2.0
	WeightSender   = 1.5
	WeightBody     = 1.0
	WeightCategory = 0.5
)

// ScoredEmail 带相关度得分的邮件，仅在一次搜索调用中存在
type ScoredEmail struct {
	domain.Email
	Score float64 `json:"score"`
}

// Search 使用当前时间执行搜索
func Search(query string, emails []domain.Email) []ScoredEmail {
	return SearchAt(query, emails, time.Now())
}

// SearchAt 按查询过滤邮件并按相关度降序返回
//
// 过滤条件全部满足才保留；得分只使用第一个自由文本词项。
// 同分记录保持输入顺序（稳定排序），输入中的重复记录原样保留。
//
// 参数:
//   - query: 原始查询字符串
//   - emails: 待搜索的邮件，不会被修改
//   - now: 解析 date: 字段时使用的当前时间
//
// 返回值:
//   - []ScoredEmail: 新分配的结果切片
func SearchAt(query string, emails []domain.Email, now time.Time) []ScoredEmail {
	return Rank(Resolve(Parse(query), now), emails)
}

// Rank 使用已推导的过滤条件执行过滤与打分
func Rank(f Filters, emails []domain.Email) []ScoredEmail {
	terms := f.lowerTerms()
	first := ""
	if len(terms) > 0 {
		first = terms[0]
	}

	out := make([]ScoredEmail, 0, len(emails))
	for _, e := range emails {
		if !Matches(f, terms, e) {
			continue
		}
		out = append(out, ScoredEmail{Email: e, Score: score(e, first, terms)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Matches 判断邮件是否满足全部过滤条件
//
// terms 必须是小写化后的自由文本词项。
func Matches(f Filters, terms []string, e domain.Email) bool {
	if f.From != "" && !containsFold(e.Sender, f.From) {
		return false
	}
	if f.Subject != "" && !containsFold(e.Subject, f.Subject) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	if f.Unread && bool(e.IsRead) {
		return false
	}
	if f.Processed && !bool(e.IsProcessed) {
		return false
	}
	if f.DateRange != nil && !f.DateRange.Contains(e.Timestamp.Time) {
		return false
	}
	if len(terms) == 0 {
		return true
	}

	// 任一字段包含全部词项即可
	for _, field := range []string{e.Sender, e.Subject, e.Body, e.Category} {
		if containsAll(strings.ToLower(field), terms) {
			return true
		}
	}
	return false
}

// score 计算相关度得分
func score(e domain.Email, first string, terms []string) float64 {
	var s float64
	if strings.Contains(strings.ToLower(e.Subject), first) {
		s += WeightSubject
	}
	if strings.Contains(strings.ToLower(e.Sender), first) {
		s += WeightSender
	}
	if strings.Contains(strings.ToLower(e.Body), first) {
		s += WeightBody
	}
	if e.Category != "" && containsExact(terms, strings.ToLower(e.Category)) {
		s += WeightCategory
	}
	return s
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsAll(s string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

func containsExact(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
