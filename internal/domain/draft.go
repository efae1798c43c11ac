package domain

// Draft 代理服务生成的回复草稿
type Draft struct {
	ID        int64  `json:"id"`
	EmailID   int64  `json:"email_id,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt Time   `json:"created_at"`
	UpdatedAt Time   `json:"updated_at"`
}

// GenerateDraftInput 生成草稿输入
type GenerateDraftInput struct {
	EmailID            int64  `json:"emailId" binding:"required"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// UpdateDraftInput 更新草稿输入
type UpdateDraftInput struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}
