package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreKeys(t *testing.T) {
	s := NewRedisStore(nil, "")
	assert.Equal(t, "mailagent:search:history", s.historyKey())
	assert.Equal(t, "mailagent:search:analytics", s.analyticsKey())

	custom := NewRedisStore(nil, "tenant1")
	assert.Equal(t, "tenant1:history", custom.historyKey())
	assert.Equal(t, "tenant1:analytics", custom.analyticsKey())
}

func TestParseCounts(t *testing.T) {
	counts := parseCounts(map[string]string{
		"meeting": "3",
		"budget":  "1",
		"broken":  "x",
	})
	assert.Equal(t, map[string]int64{"meeting": 3, "budget": 1}, counts)
}

func TestRedisStoreBlankQuerySkipsRedis(t *testing.T) {
	// 客户端为 nil，任何命令都会 panic
	s := NewRedisStore(nil, "")
	assert.NoError(t, s.Record(context.Background(), "  "))
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s := NewRedisStore(rdb, "")

	err := s.Record(ctx, "meeting")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record search history")

	_, err = s.Recent(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load search history")

	_, err = s.Counts(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load search analytics")

	err = s.Clear(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear search history")
}

// newMiniRedis 启动内存 Redis 并返回连接到它的客户端
func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	runStoreContract(t, func() Store {
		mr.FlushAll()
		return NewRedisStore(rdb, "")
	})
}

func TestRedisStoreLayout(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	s := NewRedisStore(rdb, "tenant1")

	require.NoError(t, s.Record(ctx, "Meeting"))
	require.NoError(t, s.Record(ctx, "budget"))
	require.NoError(t, s.Record(ctx, "Meeting"))

	list, err := mr.List("tenant1:history")
	require.NoError(t, err)
	assert.Equal(t, []string{"Meeting", "budget"}, list)
	assert.Equal(t, "2", mr.HGet("tenant1:analytics", "meeting"))
	assert.Equal(t, "1", mr.HGet("tenant1:analytics", "budget"))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("tenant1:history"))
	assert.False(t, mr.Exists("tenant1:analytics"))
}
