package history

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "mailagent:search"

// RedisStore 基于 Redis 的搜索历史存储
//
// 历史记录保存在列表中，统计保存在哈希中。
type RedisStore struct {
	rdb    goredis.Cmdable
	prefix string
}

// NewRedisStore 创建 Redis 历史存储
//
// 参数:
//   - rdb: Redis 客户端
//   - prefix: 键前缀，为空时使用 "mailagent:search"
func NewRedisStore(rdb goredis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// historyKey 历史记录列表的键
func (s *RedisStore) historyKey() string {
	return s.prefix + ":history"
}

// analyticsKey 查询统计哈希的键
func (s *RedisStore) analyticsKey() string {
	return s.prefix + ":analytics"
}

// Record 在一个事务管道中完成去重、插入、截断和计数
func (s *RedisStore) Record(ctx context.Context, query string) error {
	entry, key, ok := normalize(query)
	if !ok {
		return nil
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LRem(ctx, s.historyKey(), 0, entry)
		pipe.LPush(ctx, s.historyKey(), entry)
		pipe.LTrim(ctx, s.historyKey(), 0, MaxEntries-1)
		pipe.HIncrBy(ctx, s.analyticsKey(), key, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record search history: %w", err)
	}
	return nil
}

// Recent 返回最近的查询
func (s *RedisStore) Recent(ctx context.Context) ([]string, error) {
	entries, err := s.rdb.LRange(ctx, s.historyKey(), 0, MaxEntries-1).Result()
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}

// Counts 返回查询统计
func (s *RedisStore) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, s.analyticsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load search analytics: %w", err)
	}
	return parseCounts(raw), nil
}

// Clear 删除历史记录和统计
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.historyKey(), s.analyticsKey()).Err(); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	return nil
}

// parseCounts 将哈希值转换为计数，无法解析的字段被忽略
func parseCounts(raw map[string]string) map[string]int64 {
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out
}
