package agentapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"mailagent/dashboard/internal/domain"
)

// LoadMockEmails 让代理服务载入样例邮件
func (c *Client) LoadMockEmails(ctx context.Context) (domain.ProcessSummary, error) {
	var out domain.ProcessSummary
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/emails/load", path: "/api/emails/load"}, &out)
	return out, err
}

// ListEmails 获取邮件列表
//
// 参数:
//   - filter: 可选过滤条件，零值表示全部
func (c *Client) ListEmails(ctx context.Context, filter domain.EmailFilter) ([]domain.Email, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Processed != nil {
		query.Set("processed", strconv.FormatBool(*filter.Processed))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var out []domain.Email
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/emails", path: "/api/emails", query: query}, &out)
	return nonNil(out), err
}

// GetEmail 获取单封邮件及其待办与草稿
func (c *Client) GetEmail(ctx context.Context, id int64) (*domain.Email, error) {
	var out domain.Email
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/emails/:id", path: idPath("/api/emails", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessAllEmails 处理全部未处理邮件
func (c *Client) ProcessAllEmails(ctx context.Context) (domain.ProcessSummary, error) {
	var out domain.ProcessSummary
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/emails/process", path: "/api/emails/process"}, &out)
	return out, err
}

// ProcessEmail 处理单封邮件
func (c *Client) ProcessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error) {
	var out domain.ProcessSummary
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/emails/:id/process", path: idPath("/api/emails", id) + "/process"}, &out)
	return out, err
}

// ListEmailsByCategory 获取指定分类的邮件
func (c *Client) ListEmailsByCategory(ctx context.Context, category string) ([]domain.Email, error) {
	var out []domain.Email
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/emails/category/:category",
		path:   "/api/emails/category/" + url.PathEscape(category),
	}, &out)
	return nonNil(out), err
}

// EmailStats 获取邮件统计
func (c *Client) EmailStats(ctx context.Context) (domain.EmailStats, error) {
	var out domain.EmailStats
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/emails/stats", path: "/api/emails/stats"}, &out)
	return out, err
}

// DeleteEmail 删除邮件
func (c *Client) DeleteEmail(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/emails/:id", path: idPath("/api/emails", id)}, nil)
}

// ReprocessEmail 使用当前提示词重新处理邮件
func (c *Client) ReprocessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error) {
	var out domain.ProcessSummary
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/emails/:id/reprocess", path: idPath("/api/emails", id) + "/reprocess"}, &out)
	return out, err
}

// nonNil 保证列表接口返回非 nil 切片
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
