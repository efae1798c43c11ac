package domain

// EmailStats 代理服务返回的邮件统计
type EmailStats map[string]interface{}

// ActionStats 代理服务返回的待办统计
type ActionStats map[string]interface{}

// Stats 仪表盘统计数据
type Stats struct {
	Emails  EmailStats  `json:"emails"`
	Actions ActionStats `json:"actions"`
}

// DashboardCounts 工作区本地推导的计数
type DashboardCounts struct {
	Total          int `json:"total"`
	Processed      int `json:"processed"`
	Unprocessed    int `json:"unprocessed"`
	PendingActions int `json:"pendingActions"`
	NeedsAttention int `json:"needsAttention"`
	Drafts         int `json:"drafts"`
}
