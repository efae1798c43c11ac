package search

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mailagent/dashboard/internal/domain"
)

// CategoryAll 不按分类过滤
const CategoryAll = "All"

// SortMode 列表排序方式
type SortMode string

// 邮件列表排序方式
const (
	SortDateDesc   SortMode = "date_desc"
	SortDateAsc    SortMode = "date_asc"
	SortSenderAsc  SortMode = "sender_asc"
	SortSenderDesc SortMode = "sender_desc"
	SortCategory   SortMode = "category"
)

// 草稿列表排序方式
const (
	SortUpdatedDesc SortMode = "updated_desc"
	SortUpdatedAsc  SortMode = "updated_asc"
	SortCreatedDesc SortMode = "created_desc"
	SortCreatedAsc  SortMode = "created_asc"
)

// ListOptions 收件箱列表视图的过滤与排序条件
type ListOptions struct {
	Category      string     // "All"/空 表示全部；未分类邮件归入 Uncategorized
	ProcessedOnly bool       // 只保留已处理邮件
	Start         *time.Time // 起始时间（含）
	End           *time.Time // 结束时间（含）
	Query         string     // 在 "发件人 主题 正文" 中做子串匹配
	Sort          SortMode   // 默认 date_desc
}

// DraftListOptions 草稿列表视图的过滤与排序条件
type DraftListOptions struct {
	EmailID int64    // 0 表示全部
	Query   string   // 在 "主题 正文" 中做子串匹配
	Sort    SortMode // 默认 updated_desc
}

// FilterEmails 按列表视图条件过滤并排序邮件
//
// 设置了时间边界时，没有时间戳的邮件会被排除。
func FilterEmails(emails []domain.Email, opts ListOptions) []domain.Email {
	q := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]domain.Email, 0, len(emails))
	for _, e := range emails {
		if opts.Category != "" && opts.Category != CategoryAll && e.CategoryOrDefault() != opts.Category {
			continue
		}
		if opts.ProcessedOnly && !bool(e.IsProcessed) {
			continue
		}
		if !withinBounds(e.Timestamp.Time, opts.Start, opts.End) {
			continue
		}
		if q != "" {
			text := strings.ToLower(e.Sender + " " + e.Subject + " " + e.Body)
			if !strings.Contains(text, q) {
				continue
			}
		}
		out = append(out, e)
	}

	sortEmails(out, opts.Sort)
	return out
}

// FilterDrafts 按草稿视图条件过滤并排序草稿
func FilterDrafts(drafts []domain.Draft, opts DraftListOptions) []domain.Draft {
	q := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]domain.Draft, 0, len(drafts))
	for _, d := range drafts {
		if opts.EmailID != 0 && d.EmailID != opts.EmailID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Subject+" "+d.Body), q) {
			continue
		}
		out = append(out, d)
	}

	var less func(a, b domain.Draft) bool
	switch opts.Sort {
	case SortCreatedDesc:
		less = func(a, b domain.Draft) bool { return a.CreatedAt.After(b.CreatedAt.Time) }
	case SortCreatedAsc:
		less = func(a, b domain.Draft) bool { return a.CreatedAt.Before(b.CreatedAt.Time) }
	case SortUpdatedAsc:
		less = func(a, b domain.Draft) bool { return a.UpdatedAt.Before(b.UpdatedAt.Time) }
	default:
		less = func(a, b domain.Draft) bool { return a.UpdatedAt.After(b.UpdatedAt.Time) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}

// EmailCategories 返回邮件中出现的分类，首项为 All，按首次出现顺序排列
func EmailCategories(emails []domain.Email) []string {
	seen := map[string]bool{CategoryAll: true}
	out := []string{CategoryAll}
	for _, e := range emails {
		c := e.CategoryOrDefault()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func withinBounds(t time.Time, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if t.IsZero() {
		return false
	}
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func sortEmails(list []domain.Email, mode SortMode) {
	// 与浏览器 localeCompare 一致的本地化比较；Collator 不能并发使用，每次排序新建
	col := collate.New(language.English)

	var less func(a, b domain.Email) bool
	switch mode {
	case SortDateAsc:
		less = func(a, b domain.Email) bool { return a.Timestamp.Before(b.Timestamp.Time) }
	case SortSenderAsc:
		less = func(a, b domain.Email) bool { return col.CompareString(a.Sender, b.Sender) < 0 }
	case SortSenderDesc:
		less = func(a, b domain.Email) bool { return col.CompareString(b.Sender, a.Sender) < 0 }
	case SortCategory:
		less = func(a, b domain.Email) bool { return col.CompareString(a.Category, b.Category) < 0 }
	default:
		less = func(a, b domain.Email) bool { return a.Timestamp.After(b.Timestamp.Time) }
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
