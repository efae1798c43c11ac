package workspace

import "time"

// EventType 工作区事件类型
type EventType string

const (
	EventEmailsUpdated  EventType = "emails.updated"
	EventEmailSelected  EventType = "email.selected"
	EventEmailDeleted   EventType = "email.deleted"
	EventPromptsUpdated EventType = "prompts.updated"
	EventDraftsUpdated  EventType = "drafts.updated"
	EventActionsUpdated EventType = "actions.updated"
	EventStatsUpdated   EventType = "stats.updated"
	EventError          EventType = "error"
)

// Event 工作区状态变更通知
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notifier 接收工作区事件（例如 WebSocket Hub）
//
// Publish 不能阻塞。
type Notifier interface {
	Publish(event Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

func newEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}
