package workspace

import (
	"context"

	"go.uber.org/zap"

	"mailagent/dashboard/internal/domain"
)

// LoadEmails 从代理服务加载邮件列表
//
// 过滤条件为空时同时刷新 L1 缓存；带过滤条件的结果替换当前列表并使缓存失效。
func (w *Workspace) LoadEmails(ctx context.Context, filter domain.EmailFilter) error {
	done := w.begin()
	defer done()

	emails, err := w.api.ListEmails(ctx, filter)
	if err != nil {
		return w.fail("load_emails", err, MsgLoadEmails)
	}

	w.setEmails(emails, filter == (domain.EmailFilter{}))
	w.reloaded("emails")
	return nil
}

// CurrentEmails 返回完整邮件列表
//
// 缓存有效期内直接返回工作区中的列表，过期后从代理服务重新加载一次。
func (w *Workspace) CurrentEmails(ctx context.Context) ([]domain.Email, error) {
	if w.cache == nil {
		return w.Emails(), nil
	}

	val, hit, err := w.cache.GetOrLoad(emailsCacheKey, w.cacheTTL, func() (interface{}, error) {
		if err := w.LoadEmails(ctx, domain.EmailFilter{}); err != nil {
			return nil, err
		}
		return w.Emails(), nil
	})
	if w.metrics != nil {
		w.metrics.RecordCacheLookup(hit)
	}
	if err != nil {
		return nil, err
	}
	return clone(val.([]domain.Email)), nil
}

// SelectEmail 加载邮件详情并设为选中，随后加载该邮件的草稿与待办
func (w *Workspace) SelectEmail(ctx context.Context, id int64) (*domain.Email, error) {
	done := w.begin()
	defer done()

	email, err := w.api.GetEmail(ctx, id)
	if err != nil {
		w.mu.Lock()
		w.selected = nil
		w.mu.Unlock()
		return nil, w.fail("select_email", err, MsgLoadEmail)
	}

	w.mu.Lock()
	w.selected = cloneEmail(email)
	w.mu.Unlock()
	w.notifier.Publish(newEvent(EventEmailSelected, map[string]int64{"id": id}))

	w.followUp("select_email", w.LoadDrafts(ctx, id))
	w.followUp("select_email", w.LoadActions(ctx, id))

	return cloneEmail(email), nil
}

// ProcessEmails 处理全部未处理邮件，随后重新加载邮件与统计
func (w *Workspace) ProcessEmails(ctx context.Context) (domain.ProcessSummary, error) {
	done := w.begin()
	defer done()

	summary, err := w.api.ProcessAllEmails(ctx)
	if err != nil {
		return nil, w.fail("process_emails", err, MsgProcessEmails)
	}

	w.reloadEmailsAndStats(ctx, "process_emails")
	return summary, nil
}

// ProcessEmail 处理单封邮件，随后重新加载邮件与统计
func (w *Workspace) ProcessEmail(ctx context.Context, id int64) (domain.ProcessSummary, error) {
	done := w.begin()
	defer done()

	summary, err := w.api.ProcessEmail(ctx, id)
	if err != nil {
		return nil, w.fail("process_email", err, MsgProcessEmail)
	}

	w.reloadEmailsAndStats(ctx, "process_email")
	return summary, nil
}

// LoadMockEmails 载入样例邮件，随后重新加载邮件与统计
func (w *Workspace) LoadMockEmails(ctx context.Context) (domain.ProcessSummary, error) {
	done := w.begin()
	defer done()

	summary, err := w.api.LoadMockEmails(ctx)
	if err != nil {
		return nil, w.fail("load_mock_emails", err, MsgLoadMock)
	}

	w.reloadEmailsAndStats(ctx, "load_mock_emails")
	return summary, nil
}

// DeleteEmail 删除邮件
//
// 成功后从本地列表移除，若为当前选中邮件则取消选中，并刷新统计。
func (w *Workspace) DeleteEmail(ctx context.Context, id int64) error {
	done := w.begin()
	defer done()

	if err := w.api.DeleteEmail(ctx, id); err != nil {
		return w.fail("delete_email", err, MsgDeleteEmail)
	}

	w.updateEmails(func(current []domain.Email) []domain.Email {
		kept := make([]domain.Email, 0, len(current))
		for _, e := range current {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if w.selected != nil && w.selected.ID == id {
			w.selected = nil
		}
		return kept
	}, true)
	w.notifier.Publish(newEvent(EventEmailDeleted, map[string]int64{"id": id}))

	w.followUp("delete_email", w.RefreshStats(ctx))
	return nil
}

// ReprocessEmail 使用当前提示词重新处理邮件，随后重新加载邮件并重新选中
func (w *Workspace) ReprocessEmail(ctx context.Context, id int64) (*domain.Email, error) {
	done := w.begin()
	defer done()

	if _, err := w.api.ReprocessEmail(ctx, id); err != nil {
		return nil, w.fail("reprocess_email", err, MsgReprocessEmail)
	}

	w.followUp("reprocess_email", w.LoadEmails(ctx, domain.EmailFilter{}))
	email, err := w.SelectEmail(ctx, id)
	w.followUp("reprocess_email", err)
	return email, nil
}

// EmailsInCategory 返回分类完全一致的邮件
func (w *Workspace) EmailsInCategory(category string) []domain.Email {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []domain.Email{}
	for _, e := range w.emails {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// EmailsByCategory 按分类分组，未分类邮件归入 Uncategorized
func (w *Workspace) EmailsByCategory() map[string][]domain.Email {
	w.mu.RLock()
	defer w.mu.RUnlock()

	grouped := make(map[string][]domain.Email)
	for _, e := range w.emails {
		c := e.CategoryOrDefault()
		grouped[c] = append(grouped[c], e)
	}
	return grouped
}

// UnprocessedEmails 返回未处理的邮件
func (w *Workspace) UnprocessedEmails() []domain.Email {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []domain.Email{}
	for _, e := range w.emails {
		if !bool(e.IsProcessed) {
			out = append(out, e)
		}
	}
	return out
}

// UnprocessedEmailsCount 返回未处理邮件数
func (w *Workspace) UnprocessedEmailsCount() int {
	return len(w.UnprocessedEmails())
}

// setEmails 替换邮件列表；full 表示这是完整列表，可写入缓存
func (w *Workspace) setEmails(emails []domain.Email, full bool) {
	list := clone(emails)
	w.updateEmails(func([]domain.Email) []domain.Email { return list }, full)
}

// updateEmails 在持有写锁期间由 fn 根据当前列表生成新列表，并同步更新缓存
//
// fn 在锁内执行，不能再获取 w.mu。
func (w *Workspace) updateEmails(fn func(current []domain.Email) []domain.Email, full bool) {
	w.mu.Lock()
	list := fn(w.emails)
	w.emails = list
	if w.cache != nil {
		if full {
			w.cache.Set(emailsCacheKey, clone(list), w.cacheTTL)
		} else {
			w.cache.Delete(emailsCacheKey)
		}
	}
	count := len(list)
	w.mu.Unlock()

	if w.metrics != nil {
		w.metrics.UpdateWorkspaceEmails(count)
	}
	w.notifier.Publish(newEvent(EventEmailsUpdated, map[string]int{"count": count}))
}

// reloadEmailsAndStats 变更成功后重新加载邮件与统计
func (w *Workspace) reloadEmailsAndStats(ctx context.Context, op string) {
	w.followUp(op, w.LoadEmails(ctx, domain.EmailFilter{}))
	w.followUp(op, w.RefreshStats(ctx))
}

// followUp 记录变更成功后的重新加载失败
//
// 失败提示已由对应的加载方法写入 Error()，变更本身仍视为成功。
func (w *Workspace) followUp(op string, err error) {
	if err != nil {
		w.logger.Debug("Workspace follow-up reload failed", zap.String("op", op), zap.Error(err))
	}
}
