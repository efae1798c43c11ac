package agentapi

import (
	"context"
	"net/http"
	"net/url"

	"mailagent/dashboard/internal/domain"
)

// ListActions 获取待办事项，status 为空时返回全部
func (c *Client) ListActions(ctx context.Context, status domain.ActionStatus) ([]domain.ActionItem, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": []string{string(status)}}
	}

	var out []domain.ActionItem
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/actions", path: "/api/actions", query: query}, &out)
	return nonNil(out), err
}

// ListActionsByEmail 获取邮件的待办事项
func (c *Client) ListActionsByEmail(ctx context.Context, emailID int64) ([]domain.ActionItem, error) {
	var out []domain.ActionItem
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/actions/email/:id", path: idPath("/api/actions/email", emailID)}, &out)
	return nonNil(out), err
}

// CreateAction 创建待办事项
func (c *Client) CreateAction(ctx context.Context, input domain.CreateActionInput) (*domain.ActionItem, error) {
	var out domain.ActionItem
	if err := c.do(ctx, call{method: http.MethodPost, route: "/api/actions", path: "/api/actions", body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAction 更新待办事项
func (c *Client) UpdateAction(ctx context.Context, id int64, input domain.UpdateActionInput) (*domain.ActionItem, error) {
	var out domain.ActionItem
	if err := c.do(ctx, call{method: http.MethodPut, route: "/api/actions/:id", path: idPath("/api/actions", id), body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateActionStatus 更新待办事项状态
func (c *Client) UpdateActionStatus(ctx context.Context, id int64, status domain.ActionStatus) (*domain.ActionItem, error) {
	var out domain.ActionItem
	body := map[string]domain.ActionStatus{"status": status}
	if err := c.do(ctx, call{method: http.MethodPatch, route: "/api/actions/:id/status", path: idPath("/api/actions", id) + "/status", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAction 删除待办事项
func (c *Client) DeleteAction(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/actions/:id", path: idPath("/api/actions", id)}, nil)
}

// PendingActions 获取待处理的待办事项
func (c *Client) PendingActions(ctx context.Context) ([]domain.ActionItem, error) {
	var out []domain.ActionItem
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/actions/pending", path: "/api/actions/pending"}, &out)
	return nonNil(out), err
}

// ActionStats 获取待办统计
func (c *Client) ActionStats(ctx context.Context) (domain.ActionStats, error) {
	var out domain.ActionStats
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/actions/stats", path: "/api/actions/stats"}, &out)
	return out, err
}
