package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Email 表示代理服务返回的一封邮件。
//
// 搜索工具只读取该结构，从不修改。
type Email struct {
	ID          int64        `json:"id"`
	Sender      string       `json:"sender"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Category    string       `json:"category,omitempty"` // Categories 之一，未分类时为空
	Timestamp   Time         `json:"timestamp"`
	IsRead      Flag         `json:"is_read"`
	IsProcessed Flag         `json:"is_processed"`
	ActionItems []ActionItem `json:"action_items,omitempty"` // 仅详情接口返回
	Drafts      []Draft      `json:"drafts,omitempty"`       // 仅详情接口返回
}

// UncategorizedLabel 未分类邮件的展示分组
const UncategorizedLabel = "Uncategorized"

// 邮件分类（由代理服务的分类提示词产生）
const (
	CategoryImportant     = "Important"
	CategoryToDo          = "To-Do"
	CategoryMeeting       = "Meeting"
	CategoryNewsletter    = "Newsletter"
	CategoryProjectUpdate = "Project Update"
	CategorySpam          = "Spam"
)

// Categories 返回全部已知分类
func Categories() []string {
	return []string{
		CategoryImportant,
		CategoryToDo,
		CategoryMeeting,
		CategoryNewsletter,
		CategoryProjectUpdate,
		CategorySpam,
	}
}

// CategoryOrDefault 返回邮件分类，未分类时返回 Uncategorized
func (e Email) CategoryOrDefault() string {
	if e.Category == "" {
		return UncategorizedLabel
	}
	return e.Category
}

// NeedsAttention 判断邮件是否属于需要优先处理的分类
func (e Email) NeedsAttention() bool {
	return e.Category == CategoryImportant || e.Category == CategoryToDo
}

// EmailFilter 邮件列表查询参数（透传给代理服务）
type EmailFilter struct {
	Category  string `form:"category"`
	Processed *bool  `form:"processed"`
	Search    string `form:"search"`
}

// Flag 兼容布尔值与 0/1 两种编码的标志位
//
// 代理服务基于 SQLite，is_processed 等字段有时以整数返回。
type Flag bool

// UnmarshalJSON 解析 true/false、0/1、"true"/"1" 以及 null
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", string(data))
	}
	return nil
}

// Time 兼容多种时间格式的时间戳
type Time struct {
	time.Time
}

// timeLayouts 代理服务可能返回的时间格式
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTime 包装 time.Time
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// ParseTime 依次尝试已知格式解析时间
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", value)
}

// UnmarshalJSON 解析字符串或 null；无法识别的格式视为零值
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		// 与前端 new Date(invalid) 一致：不报错，只是无法参与时间比较
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

// MarshalJSON 零值输出 null，否则输出 RFC3339
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
