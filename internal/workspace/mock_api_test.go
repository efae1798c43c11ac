package workspace

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mailagent/dashboard/internal/domain"
)

// MockAPI 模拟代理服务接口
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListEmails(ctx context.Context, filter domain.EmailFilter) ([]domain.Email, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Email), args.Error(1)
}

func (m *MockAPI) GetEmail(ctx context.Context, id int64) (*domain.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Email), args.Error(1)
}

func (m *MockAPI) LoadMockEmails(ctx context.Context) (domain.ProcessSummary, error) {
	args := m.Called(ctx)
	return summaryArg(args, 0), args.Error(1)
}

func (m *MockAPI) ProcessAllEmails(ctx context.Context) (domain.ProcessSummary, error) {
	args := m.Called(ctx)
	return summaryArg(args, 0), args.Error(1)
}

func (m *MockAPI) ProcessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error) {
	args := m.Called(ctx, id)
	return summaryArg(args, 0), args.Error(1)
}

func (m *MockAPI) ReprocessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error) {
	args := m.Called(ctx, id)
	return summaryArg(args, 0), args.Error(1)
}

func (m *MockAPI) DeleteEmail(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) EmailStats(ctx context.Context) (domain.EmailStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.EmailStats), args.Error(1)
}

func (m *MockAPI) ListPrompts(ctx context.Context) ([]domain.Prompt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prompt), args.Error(1)
}

func (m *MockAPI) CreatePrompt(ctx context.Context, input domain.CreatePromptInput) (*domain.Prompt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockAPI) UpdatePrompt(ctx context.Context, id int64, input domain.UpdatePromptInput) (*domain.Prompt, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockAPI) DeletePrompt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) ResetPrompts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAPI) GenerateDraft(ctx context.Context, emailID int64, instructions string) (*domain.Draft, error) {
	args := m.Called(ctx, emailID, instructions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockAPI) ListDrafts(ctx context.Context, emailID int64) ([]domain.Draft, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *MockAPI) UpdateDraft(ctx context.Context, id int64, input domain.UpdateDraftInput) (*domain.Draft, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockAPI) DeleteDraft(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) ListActions(ctx context.Context, status domain.ActionStatus) ([]domain.ActionItem, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActionItem), args.Error(1)
}

func (m *MockAPI) ListActionsByEmail(ctx context.Context, emailID int64) ([]domain.ActionItem, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActionItem), args.Error(1)
}

func (m *MockAPI) CreateAction(ctx context.Context, input domain.CreateActionInput) (*domain.ActionItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActionItem), args.Error(1)
}

func (m *MockAPI) UpdateActionStatus(ctx context.Context, id int64, status domain.ActionStatus) (*domain.ActionItem, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActionItem), args.Error(1)
}

func (m *MockAPI) ActionStats(ctx context.Context) (domain.ActionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ActionStats), args.Error(1)
}

func summaryArg(args mock.Arguments, i int) domain.ProcessSummary {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(domain.ProcessSummary)
}

// recordingNotifier 记录收到的事件
type recordingNotifier struct {
	events chan Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan Event, 256)}
}

func (r *recordingNotifier) Publish(e Event) {
	select {
	case r.events <- e:
	default:
	}
}

func (r *recordingNotifier) types() []EventType {
	var out []EventType
	for {
		select {
		case e := <-r.events:
			out = append(out, e.Type)
		default:
			return out
		}
	}
}
