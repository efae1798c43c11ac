package domain

import "encoding/json"

// 内置提示词名称
const (
	PromptCategorization = "categorization"
	PromptActionItem     = "action_item"
	PromptAutoReply      = "auto_reply"
	PromptSummarization  = "summarization"
)

// Prompt 代理服务使用的提示词模板
type Prompt struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PromptText  string `json:"prompt_text"`
	Description string `json:"description,omitempty"`
	CreatedAt   Time   `json:"created_at,omitempty"`
	UpdatedAt   Time   `json:"updated_at,omitempty"`
}

// CreatePromptInput 创建提示词输入
type CreatePromptInput struct {
	Name        string `json:"name" binding:"required"`
	PromptText  string `json:"prompt_text" binding:"required"`
	Description string `json:"description,omitempty"`
}

// UpdatePromptInput 更新提示词输入
type UpdatePromptInput struct {
	PromptText  string `json:"prompt_text,omitempty"`
	Description string `json:"description,omitempty"`
}

// TestPromptInput 使用样例邮件测试提示词
type TestPromptInput struct {
	PromptText string `json:"prompt_text" binding:"required"`
	EmailID    int64  `json:"email_id,omitempty"`
	PromptType string `json:"prompt_type,omitempty"`
	SampleText string `json:"sample_text,omitempty"`
}

// PromptTestResult 提示词测试输出（格式由代理服务决定）
type PromptTestResult = json.RawMessage
