package domain

// ActionStatus 待办事项状态
type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusCompleted ActionStatus = "completed"
)

// Valid 判断状态是否合法
func (s ActionStatus) Valid() bool {
	return s == ActionStatusPending || s == ActionStatusCompleted
}

// ActionItem 从邮件中提取的待办事项
type ActionItem struct {
	ID              int64        `json:"id"`
	EmailID         int64        `json:"email_id"`
	TaskDescription string       `json:"task_description"`
	Deadline        string       `json:"deadline,omitempty"` // 代理服务原样返回的自然语言截止时间
	Status          ActionStatus `json:"status"`
	CreatedAt       Time         `json:"created_at,omitempty"`
}

// IsPending 判断是否为待处理状态
func (a ActionItem) IsPending() bool {
	return a.Status == ActionStatusPending
}

// CreateActionInput 创建待办事项输入
type CreateActionInput struct {
	EmailID         int64  `json:"email_id" binding:"required"`
	TaskDescription string `json:"task_description" binding:"required"`
	Deadline        string `json:"deadline,omitempty"`
}

// UpdateActionInput 更新待办事项输入
type UpdateActionInput struct {
	TaskDescription string       `json:"task_description,omitempty"`
	Deadline        string       `json:"deadline,omitempty"`
	Status          ActionStatus `json:"status,omitempty"`
}
