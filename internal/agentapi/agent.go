package agentapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"mailagent/dashboard/internal/domain"
)

type chatRequest struct {
	Query   string             `json:"query"`
	Context domain.ChatContext `json:"context"`
	EmailID int64              `json:"emailId,omitempty"`
}

// Chat 与邮件代理对话
//
// 参数:
//   - query: 用户问题
//   - chatContext: all_emails、urgent 或 specific_email
//   - emailID: specific_email 时指定的邮件，0 表示不指定
func (c *Client) Chat(ctx context.Context, query string, chatContext domain.ChatContext, emailID int64) (*domain.ChatReply, error) {
	var out domain.ChatReply
	body := chatRequest{Query: query, Context: chatContext, EmailID: emailID}
	if err := c.do(ctx, call{method: http.MethodPost, route: "/api/agent/chat", path: "/api/agent/chat", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDraft 为邮件生成回复草稿
func (c *Client) GenerateDraft(ctx context.Context, emailID int64, instructions string) (*domain.Draft, error) {
	var out domain.Draft
	body := domain.GenerateDraftInput{EmailID: emailID, CustomInstructions: instructions}
	if err := c.do(ctx, call{method: http.MethodPost, route: "/api/agent/draft", path: "/api/agent/draft", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDrafts 获取草稿列表，emailID 为 0 时返回全部
func (c *Client) ListDrafts(ctx context.Context, emailID int64) ([]domain.Draft, error) {
	var query url.Values
	if emailID != 0 {
		query = url.Values{"emailId": []string{strconv.FormatInt(emailID, 10)}}
	}

	var out []domain.Draft
	err := c.do(ctx, call{method: http.MethodGet, route: "/api/agent/drafts", path: "/api/agent/drafts", query: query}, &out)
	return nonNil(out), err
}

// GetDraft 获取草稿
func (c *Client) GetDraft(ctx context.Context, id int64) (*domain.Draft, error) {
	var out domain.Draft
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/agent/drafts/:id", path: idPath("/api/agent/drafts", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDraft 更新草稿
func (c *Client) UpdateDraft(ctx context.Context, id int64, input domain.UpdateDraftInput) (*domain.Draft, error) {
	var out domain.Draft
	if err := c.do(ctx, call{method: http.MethodPut, route: "/api/agent/drafts/:id", path: idPath("/api/agent/drafts", id), body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDraft 删除草稿
func (c *Client) DeleteDraft(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/agent/drafts/:id", path: idPath("/api/agent/drafts", id)}, nil)
}
