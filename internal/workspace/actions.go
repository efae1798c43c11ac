package workspace

import (
	"context"

	"mailagent/dashboard/internal/domain"
)

// LoadActions 加载待办事项，emailID 为 0 时加载全部
func (w *Workspace) LoadActions(ctx context.Context, emailID int64) error {
	done := w.begin()
	defer done()

	var (
		actions []domain.ActionItem
		err     error
	)
	if emailID != 0 {
		actions, err = w.api.ListActionsByEmail(ctx, emailID)
	} else {
		actions, err = w.api.ListActions(ctx, "")
	}
	if err != nil {
		return w.fail("load_actions", err, MsgLoadActions)
	}

	w.mu.Lock()
	w.actions = clone(actions)
	w.mu.Unlock()

	w.reloaded("actions")
	w.notifier.Publish(newEvent(EventActionsUpdated, map[string]int{"count": len(actions)}))
	return nil
}

// CreateAction 创建待办事项并重新加载该邮件的待办
func (w *Workspace) CreateAction(ctx context.Context, input domain.CreateActionInput) (*domain.ActionItem, error) {
	done := w.begin()
	defer done()

	item, err := w.api.CreateAction(ctx, input)
	if err != nil {
		return nil, w.fail("create_action", err, MsgCreateAction)
	}

	w.followUp("create_action", w.LoadActions(ctx, input.EmailID))
	return item, nil
}

// UpdateActionStatus 更新待办状态并重新加载全部待办
func (w *Workspace) UpdateActionStatus(ctx context.Context, id int64, status domain.ActionStatus) (*domain.ActionItem, error) {
	done := w.begin()
	defer done()

	item, err := w.api.UpdateActionStatus(ctx, id, status)
	if err != nil {
		return nil, w.fail("update_action_status", err, MsgUpdateAction)
	}

	w.followUp("update_action_status", w.LoadActions(ctx, 0))
	return item, nil
}

// PendingActions 返回待处理的待办事项
func (w *Workspace) PendingActions() []domain.ActionItem {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []domain.ActionItem{}
	for _, a := range w.actions {
		if a.IsPending() {
			out = append(out, a)
		}
	}
	return out
}

// PendingActionsCount 返回待处理的待办数
func (w *Workspace) PendingActionsCount() int {
	return len(w.PendingActions())
}
