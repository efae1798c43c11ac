package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// 验证相关的错误定义
var (
	ErrPromptNameRequired = errors.New("prompt name is required")
	ErrPromptNameTooLong  = errors.New("prompt name too long (max 64 chars)")
	ErrPromptTextRequired = errors.New("prompt text is required")
	ErrPromptTextTooLong  = errors.New("prompt text too long (max 20000 chars)")
	ErrQueryRequired      = errors.New("query is required")
	ErrQueryTooLong       = errors.New("query too long (max 2000 chars)")
	ErrInvalidChatContext = errors.New("invalid chat context")
	ErrEmailIDRequired    = errors.New("email id is required")
	ErrTaskRequired       = errors.New("task description is required")
	ErrTaskTooLong        = errors.New("task description too long (max 500 chars)")
	ErrInvalidStatus      = errors.New("invalid action status")
	ErrSubjectTooLong     = errors.New("subject too long (max 500 chars)")
	ErrBodyTooLong        = errors.New("body too long (max 1MB)")
	ErrEmptyUpdate        = errors.New("nothing to update")
)

// 验证常量
const (
	MaxPromptNameLength = 64
	MaxPromptTextLength = 20000
	MaxQueryLength      = 2000
	MaxTaskLength       = 500
	MaxSubjectLength    = 500
	MaxBodyLength       = 1024 * 1024 // 1MB
)

// ValidateSubject 验证邮件/草稿主题长度
func ValidateSubject(subject string) bool {
	return utf8.RuneCountInString(subject) <= MaxSubjectLength
}

// ValidateBody 验证草稿正文长度
func ValidateBody(body string) bool {
	return len(body) <= MaxBodyLength
}

// ValidateChatContext 验证对话上下文
func ValidateChatContext(ctx ChatContext) bool {
	switch ctx {
	case "", ChatContextAllEmails, ChatContextUrgent, ChatContextSpecificEmail:
		return true
	default:
		return false
	}
}

// Validate 验证创建提示词输入
func (in *CreatePromptInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrPromptNameRequired
	}
	if utf8.RuneCountInString(in.Name) > MaxPromptNameLength {
		return ErrPromptNameTooLong
	}
	return validatePromptText(in.PromptText)
}

// Validate 验证更新提示词输入
func (in *UpdatePromptInput) Validate() error {
	if in.PromptText == "" && in.Description == "" {
		return ErrEmptyUpdate
	}
	if in.PromptText != "" {
		return validatePromptText(in.PromptText)
	}
	return nil
}

// Validate 验证测试提示词输入
func (in *TestPromptInput) Validate() error {
	return validatePromptText(in.PromptText)
}

func validatePromptText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrPromptTextRequired
	}
	if utf8.RuneCountInString(text) > MaxPromptTextLength {
		return ErrPromptTextTooLong
	}
	return nil
}

// Validate 验证对话输入
func (in *ChatInput) Validate() error {
	in.Query = strings.TrimSpace(in.Query)
	if in.Query == "" {
		return ErrQueryRequired
	}
	if utf8.RuneCountInString(in.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if !ValidateChatContext(in.Context) {
		return ErrInvalidChatContext
	}
	if in.Context == ChatContextSpecificEmail && in.EmailID == 0 {
		return ErrEmailIDRequired
	}
	return nil
}

// Validate 验证生成草稿输入
func (in *GenerateDraftInput) Validate() error {
	if in.EmailID <= 0 {
		return ErrEmailIDRequired
	}
	return nil
}

// Validate 验证更新草稿输入
func (in *UpdateDraftInput) Validate() error {
	if in.Subject == "" && in.Body == "" {
		return ErrEmptyUpdate
	}
	if !ValidateSubject(in.Subject) {
		return ErrSubjectTooLong
	}
	if !ValidateBody(in.Body) {
		return ErrBodyTooLong
	}
	return nil
}

// Validate 验证创建待办事项输入
func (in *CreateActionInput) Validate() error {
	if in.EmailID <= 0 {
		return ErrEmailIDRequired
	}
	in.TaskDescription = strings.TrimSpace(in.TaskDescription)
	if in.TaskDescription == "" {
		return ErrTaskRequired
	}
	if utf8.RuneCountInString(in.TaskDescription) > MaxTaskLength {
		return ErrTaskTooLong
	}
	return nil
}

// Validate 验证更新待办事项输入
func (in *UpdateActionInput) Validate() error {
	if in.TaskDescription == "" && in.Deadline == "" && in.Status == "" {
		return ErrEmptyUpdate
	}
	if in.Status != "" && !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if utf8.RuneCountInString(in.TaskDescription) > MaxTaskLength {
		return ErrTaskTooLong
	}
	return nil
}
