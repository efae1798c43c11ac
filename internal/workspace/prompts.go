package workspace

import (
	"context"

	"mailagent/dashboard/internal/domain"
)

// LoadPrompts 加载全部提示词
func (w *Workspace) LoadPrompts(ctx context.Context) error {
	done := w.begin()
	defer done()

	prompts, err := w.api.ListPrompts(ctx)
	if err != nil {
		return w.fail("load_prompts", err, MsgLoadPrompts)
	}

	w.mu.Lock()
	w.prompts = clone(prompts)
	w.mu.Unlock()

	w.reloaded("prompts")
	w.notifier.Publish(newEvent(EventPromptsUpdated, map[string]int{"count": len(prompts)}))
	return nil
}

// CreatePrompt 创建提示词并重新加载提示词列表
func (w *Workspace) CreatePrompt(ctx context.Context, input domain.CreatePromptInput) (*domain.Prompt, error) {
	done := w.begin()
	defer done()

	prompt, err := w.api.CreatePrompt(ctx, input)
	if err != nil {
		return nil, w.fail("create_prompt", err, MsgCreatePrompt)
	}

	w.followUp("create_prompt", w.LoadPrompts(ctx))
	return prompt, nil
}

// UpdatePrompt 更新提示词并重新加载提示词列表
func (w *Workspace) UpdatePrompt(ctx context.Context, id int64, input domain.UpdatePromptInput) (*domain.Prompt, error) {
	done := w.begin()
	defer done()

	prompt, err := w.api.UpdatePrompt(ctx, id, input)
	if err != nil {
		return nil, w.fail("update_prompt", err, MsgUpdatePrompt)
	}

	w.followUp("update_prompt", w.LoadPrompts(ctx))
	return prompt, nil
}

// DeletePrompt 删除提示词并重新加载提示词列表
func (w *Workspace) DeletePrompt(ctx context.Context, id int64) error {
	done := w.begin()
	defer done()

	if err := w.api.DeletePrompt(ctx, id); err != nil {
		return w.fail("delete_prompt", err, MsgDeletePrompt)
	}

	w.followUp("delete_prompt", w.LoadPrompts(ctx))
	return nil
}

// ResetPrompts 恢复默认提示词并重新加载提示词列表
func (w *Workspace) ResetPrompts(ctx context.Context) error {
	done := w.begin()
	defer done()

	if err := w.api.ResetPrompts(ctx); err != nil {
		return w.fail("reset_prompts", err, MsgResetPrompts)
	}

	w.followUp("reset_prompts", w.LoadPrompts(ctx))
	return nil
}
