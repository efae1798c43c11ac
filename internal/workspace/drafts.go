package workspace

import (
	"context"

	"mailagent/dashboard/internal/domain"
)

// LoadDrafts 加载草稿，emailID 为 0 时加载全部
func (w *Workspace) LoadDrafts(ctx context.Context, emailID int64) error {
	done := w.begin()
	defer done()

	drafts, err := w.api.ListDrafts(ctx, emailID)
	if err != nil {
		return w.fail("load_drafts", err, MsgLoadDrafts)
	}

	w.setDrafts(drafts)
	w.reloaded("drafts")
	return nil
}

// GenerateDraft 为邮件生成草稿并重新加载该邮件的草稿
func (w *Workspace) GenerateDraft(ctx context.Context, emailID int64, instructions string) (*domain.Draft, error) {
	done := w.begin()
	defer done()

	draft, err := w.api.GenerateDraft(ctx, emailID, instructions)
	if err != nil {
		return nil, w.fail("generate_draft", err, MsgGenerateDraft)
	}

	w.followUp("generate_draft", w.LoadDrafts(ctx, emailID))
	return draft, nil
}

// UpdateDraft 更新草稿并重新加载全部草稿
func (w *Workspace) UpdateDraft(ctx context.Context, id int64, input domain.UpdateDraftInput) (*domain.Draft, error) {
	done := w.begin()
	defer done()

	draft, err := w.api.UpdateDraft(ctx, id, input)
	if err != nil {
		return nil, w.fail("update_draft", err, MsgUpdateDraft)
	}

	w.followUp("update_draft", w.LoadDrafts(ctx, 0))
	return draft, nil
}

// DeleteDraft 删除草稿并从本地列表移除
func (w *Workspace) DeleteDraft(ctx context.Context, id int64) error {
	done := w.begin()
	defer done()

	if err := w.api.DeleteDraft(ctx, id); err != nil {
		return w.fail("delete_draft", err, MsgDeleteDraft)
	}

	w.mu.RLock()
	kept := make([]domain.Draft, 0, len(w.drafts))
	for _, d := range w.drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	w.mu.RUnlock()

	w.setDrafts(kept)
	return nil
}

func (w *Workspace) setDrafts(drafts []domain.Draft) {
	w.mu.Lock()
	w.drafts = clone(drafts)
	w.mu.Unlock()

	w.notifier.Publish(newEvent(EventDraftsUpdated, map[string]int{"count": len(drafts)}))
}
