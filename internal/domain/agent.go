package domain

import (
	"bytes"
	"encoding/json"
)

// ChatContext 代理对话的上下文范围
type ChatContext string

const (
	ChatContextAllEmails     ChatContext = "all_emails"
	ChatContextUrgent        ChatContext = "urgent"
	ChatContextSpecificEmail ChatContext = "specific_email"
)

// ChatInput 代理对话输入
type ChatInput struct {
	Query   string      `json:"query" binding:"required"`
	Context ChatContext `json:"context,omitempty"`
	EmailID int64       `json:"emailId,omitempty"`
	Urgent  bool        `json:"urgent,omitempty"` // 仅用于推导 Context，不发送给代理服务
}

// ResolveContext 按前端规则推导上下文：urgent 优先，其次指定邮件，否则全部邮件
func (in ChatInput) ResolveContext() ChatContext {
	if in.Context != "" {
		return in.Context
	}
	switch {
	case in.Urgent:
		return ChatContextUrgent
	case in.EmailID != 0:
		return ChatContextSpecificEmail
	default:
		return ChatContextAllEmails
	}
}

// ChatReply 代理对话回复
type ChatReply struct {
	Reply string          `json:"reply"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

// UnmarshalJSON 兼容 {"reply": "..."}、纯字符串以及其他任意结构
func (r *ChatReply) UnmarshalJSON(data []byte) error {
	r.Raw = append(json.RawMessage(nil), data...)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.Reply)
	}

	var obj struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj.Reply != "" {
		r.Reply = obj.Reply
		return nil
	}

	r.Reply = string(trimmed)
	return nil
}

// ProcessSummary 批量处理结果摘要（结构由代理服务决定）
type ProcessSummary map[string]interface{}
