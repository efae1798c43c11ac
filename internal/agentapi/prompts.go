package agentapi

import (
	"context"
	"net/http"
	"net/url"

	"mailagent/dashboard/internal/domain"
)

// ListPrompts 获取全部提示词
func (c *Client) ListPrompts(ctx context.Context) ([]domain.Prompt, error) {
	var out []domain.Prompt
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/prompts", path: "/api/prompts"}, &out)
	return nonNil(out), err
}

// GetPrompt 按名称获取提示词（categorization、action_item、auto_reply、summarization）
func (c *Client) GetPrompt(ctx context.Context, name string) (*domain.Prompt, error) {
	var out domain.Prompt
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/prompts/:name", path: "/api/prompts/" + url.PathEscape(name)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePrompt 创建提示词
func (c *Client) CreatePrompt(ctx context.Context, input domain.CreatePromptInput) (*domain.Prompt, error) {
	var out domain.Prompt
	if err := c.do(ctx, call{method: http.MethodPost, route: "/api/prompts", path: "/api/prompts", body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePrompt 更新提示词
func (c *Client) UpdatePrompt(ctx context.Context, id int64, input domain.UpdatePromptInput) (*domain.Prompt, error) {
	var out domain.Prompt
	if err := c.do(ctx, call{method: http.MethodPut, route: "/api/prompts/:id", path: idPath("/api/prompts", id), body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePrompt 删除提示词
func (c *Client) DeletePrompt(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/prompts/:id", path: idPath("/api/prompts", id)}, nil)
}

// ResetPrompts 将提示词恢复为默认值
func (c *Client) ResetPrompts(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, route: "/api/prompts/reset", path: "/api/prompts/reset"}, nil)
}

// TestPrompt 使用样例邮件测试提示词，返回代理服务的原始输出
func (c *Client) TestPrompt(ctx context.Context, input domain.TestPromptInput) (domain.PromptTestResult, error) {
	var out domain.PromptTestResult
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/prompts/test", path: "/api/prompts/test", body: input}, &out)
	return out, err
}
