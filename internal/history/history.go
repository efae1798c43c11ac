// Package history 保存全局搜索的历史记录与查询统计。
//
// 历史记录按最近使用排序、去重并限制为 MaxEntries 条；统计按小写查询计数。
// 空白查询不会被记录。
package history

import (
	"context"
	"strings"
)

// MaxEntries 历史记录保留的最大条数
const MaxEntries = 10

// Store 搜索历史存储接口
type Store interface {
	// Record 将去除首尾空白的查询放到历史最前面，并递增其小写形式的计数
	Record(ctx context.Context, query string) error
	// Recent 返回最近的查询，最新的在前
	Recent(ctx context.Context) ([]string, error)
	// Counts 返回每个小写查询的累计次数
	Counts(ctx context.Context) (map[string]int64, error)
	// Clear 清空历史记录和统计
	Clear(ctx context.Context) error
}

// normalize 返回用于历史记录和统计的两个键，查询为空白时 ok 为 false
func normalize(query string) (entry, key string, ok bool) {
	entry = strings.TrimSpace(query)
	if entry == "" {
		return "", "", false
	}
	return entry, strings.ToLower(entry), true
}
