package search

import (
	"strings"
	"time"

	"mailagent/dashboard/internal/domain"
)

// 全局搜索面板每类结果的上限
const (
	MaxGlobalEmails  = 5
	MaxGlobalDrafts  = 3
	MaxGlobalActions = 3
	SnippetLength    = 90
)

// EmailHit 全局搜索中的邮件结果，附带高亮后的主题与正文摘要
type EmailHit struct {
	ScoredEmail
	SubjectHTML string `json:"subjectHtml"`
	SnippetHTML string `json:"snippetHtml"`
}

// GlobalResult 全局搜索面板的结果
type GlobalResult struct {
	Query   string              `json:"query"`
	Filters Filters             `json:"filters"`
	Emails  []EmailHit          `json:"emails"`
	Drafts  []domain.Draft      `json:"drafts"`
	Actions []domain.ActionItem `json:"actions"`
}

// Total 返回结果总数
func (r GlobalResult) Total() int {
	return len(r.Emails) + len(r.Drafts) + len(r.Actions)
}

// Global 在邮件、草稿、待办事项中同时搜索
//
// 邮件走完整的过滤与打分流程；草稿和待办只按第一个自由文本词项做子串匹配，
// 没有自由文本时不过滤。每类结果分别截断到面板上限。
func Global(query string, emails []domain.Email, drafts []domain.Draft, actions []domain.ActionItem, now time.Time) GlobalResult {
	filters := Resolve(Parse(query), now)
	first := strings.ToLower(filters.FirstTerm())

	result := GlobalResult{
		Query:   query,
		Filters: filters,
		Emails:  []EmailHit{},
		Drafts:  []domain.Draft{},
		Actions: []domain.ActionItem{},
	}

	for _, se := range Rank(filters, emails) {
		if len(result.Emails) == MaxGlobalEmails {
			break
		}
		result.Emails = append(result.Emails, EmailHit{
			ScoredEmail: se,
			SubjectHTML: Highlight(se.Subject, query),
			SnippetHTML: Highlight(Snippet(se.Body, SnippetLength), query),
		})
	}

	for _, d := range drafts {
		if len(result.Drafts) == MaxGlobalDrafts {
			break
		}
		if first == "" || containsFold(d.Subject, first) || containsFold(d.Body, first) {
			result.Drafts = append(result.Drafts, d)
		}
	}

	for _, a := range actions {
		if len(result.Actions) == MaxGlobalActions {
			break
		}
		if first == "" || containsFold(a.TaskDescription, first) {
			result.Actions = append(result.Actions, a)
		}
	}

	return result
}

// Snippet 返回 text 的前 n 个字符（按 rune 计）
func Snippet(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
