package workspace

import (
	"context"

	"golang.org/x/sync/errgroup"

	"mailagent/dashboard/internal/domain"
)

// RefreshStats 同时获取邮件统计与待办统计，两者都成功才更新
//
// 待办统计优先取响应中的 stats 字段。
func (w *Workspace) RefreshStats(ctx context.Context) error {
	done := w.begin()
	defer done()

	var (
		emailStats  domain.EmailStats
		actionStats domain.ActionStats
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		emailStats, err = w.api.EmailStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		actionStats, err = w.api.ActionStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		// 统计失败统一使用固定提示
		return w.failWith("refresh_stats", err, MsgLoadStats)
	}

	if emailStats == nil {
		emailStats = domain.EmailStats{}
	}
	if inner, ok := actionStats["stats"].(map[string]interface{}); ok {
		actionStats = domain.ActionStats(inner)
	}
	if actionStats == nil {
		actionStats = domain.ActionStats{}
	}

	w.mu.Lock()
	w.stats = domain.Stats{Emails: emailStats, Actions: actionStats}
	w.mu.Unlock()

	w.reloaded("stats")
	w.notifier.Publish(newEvent(EventStatsUpdated, nil))
	return nil
}

// Counts 根据本地数据计算仪表盘计数
func (w *Workspace) Counts() domain.DashboardCounts {
	w.mu.RLock()
	defer w.mu.RUnlock()

	counts := domain.DashboardCounts{
		Total:  len(w.emails),
		Drafts: len(w.drafts),
	}
	for _, e := range w.emails {
		if e.IsProcessed {
			counts.Processed++
		} else {
			counts.Unprocessed++
		}
		if e.NeedsAttention() {
			counts.NeedsAttention++
		}
	}
	for _, a := range w.actions {
		if a.IsPending() {
			counts.PendingActions++
		}
	}
	return counts
}
