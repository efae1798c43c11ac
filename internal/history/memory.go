package history

import (
	"context"
	"sync"
)

// MemoryStore 进程内的搜索历史存储
type MemoryStore struct {
	mu      sync.RWMutex
	entries []string
	counts  map[string]int64
}

// NewMemoryStore 创建内存历史存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make([]string, 0, MaxEntries),
		counts:  make(map[string]int64),
	}
}

// Record 记录一次查询
func (s *MemoryStore) Record(ctx context.Context, query string) error {
	entry, key, ok := normalize(query)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, MaxEntries)
	next = append(next, entry)
	for _, existing := range s.entries {
		if existing == entry {
			continue
		}
		if len(next) == MaxEntries {
			break
		}
		next = append(next, existing)
	}
	s.entries = next
	s.counts[key]++
	return nil
}

// Recent 返回最近的查询
func (s *MemoryStore) Recent(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Counts 返回查询统计
func (s *MemoryStore) Counts(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

// Clear 清空历史记录和统计
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = s.entries[:0]
	s.counts = make(map[string]int64)
	s.mu.Unlock()
	return nil
}
