package workspace

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mailagent/dashboard/internal/agentapi"
)

// BulkItemResult 批量操作中单封邮件的结果
type BulkItemResult struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkResult 批量操作结果，Items 与输入 ID 顺序一致
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// ProcessMany 批量处理邮件，全部完成后重新加载邮件与统计
func (w *Workspace) ProcessMany(ctx context.Context, ids []int64) (BulkResult, error) {
	done := w.begin()
	defer done()

	result, err := w.runBulk(ctx, ids, func(ctx context.Context, id int64) error {
		_, err := w.api.ProcessEmail(ctx, id)
		return err
	}, MsgProcessEmail)
	if err != nil {
		return result, err
	}

	if result.Succeeded > 0 {
		w.reloadEmailsAndStats(ctx, "process_many")
	}
	return result, nil
}

// DeleteMany 批量删除邮件，全部完成后重新加载邮件与统计
func (w *Workspace) DeleteMany(ctx context.Context, ids []int64) (BulkResult, error) {
	done := w.begin()
	defer done()

	result, err := w.runBulk(ctx, ids, func(ctx context.Context, id int64) error {
		return w.api.DeleteEmail(ctx, id)
	}, MsgDeleteEmail)
	if err != nil {
		return result, err
	}

	if result.Succeeded > 0 {
		w.mu.Lock()
		if w.selected != nil {
			for _, item := range result.Items {
				if item.OK && item.ID == w.selected.ID {
					w.selected = nil
					break
				}
			}
		}
		w.mu.Unlock()
		w.reloadEmailsAndStats(ctx, "delete_many")
	}
	return result, nil
}

// runBulk 在协程池上并发执行 fn，单项失败不影响其他项
//
// 只有任务无法提交（ctx 结束或协程池停止）时才返回错误。
func (w *Workspace) runBulk(ctx context.Context, ids []int64, fn func(context.Context, int64) error, fallback string) (BulkResult, error) {
	result := BulkResult{Items: make([]BulkItemResult, len(ids))}
	for i, id := range ids {
		result.Items[i] = BulkItemResult{ID: id, Error: "not executed"}
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		task := func() {
			defer wg.Done()
			item := BulkItemResult{ID: id, OK: true}
			if err := fn(ctx, id); err != nil {
				item.OK = false
				item.Error = agentapi.Message(err, fallback)
				w.logger.Warn("Bulk item failed", zap.Int64("email_id", id), zap.Error(err))
			}
			result.Items[i] = item
		}

		wg.Add(1)
		if w.pool == nil {
			task()
			continue
		}
		if err := w.pool.Submit(ctx, task); err != nil {
			wg.Done()
			wg.Wait()
			return tally(result), w.fail("bulk", err, fallback)
		}
	}
	wg.Wait()

	return tally(result), nil
}

// tally 统计成功与失败数
func tally(result BulkResult) BulkResult {
	result.Succeeded, result.Failed = 0, 0
	for _, item := range result.Items {
		if item.OK {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	return result
}
