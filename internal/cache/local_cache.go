package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// LocalCache 本地内存缓存（L1 缓存）
//
// 特点：
// - 使用 sync.Map 实现无锁读取
// - 支持 TTL 过期
// - 后台定期清理过期条目
// - 容量限制，满时淘汰最先过期的条目
// - GetOrLoad 合并同一个键的并发加载
type LocalCache struct {
	data    sync.Map
	size    atomic.Int64
	maxSize int
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// cleanupInterval 后台清理周期
const cleanupInterval = time.Minute

// NewLocalCache 创建本地缓存
//
// 参数:
//   - maxSize: 最大缓存条目数，<= 0 表示不限制
//   - ttl: 默认过期时间
func NewLocalCache(maxSize int, ttl time.Duration) *LocalCache {
	cache := &LocalCache{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	// 启动定期清理
	go cache.cleanupLoop(cleanupInterval)

	return cache
}

// Get 获取缓存值
func (c *LocalCache) Get(key string) (interface{}, bool) {
	val, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}

	entry := val.(*cacheEntry)

	// 检查是否过期
	if c.now().After(entry.expiresAt) {
		c.Delete(key)
		return nil, false
	}

	return entry.value, true
}

// Set 设置缓存值，ttl 为 0 时使用默认过期时间
func (c *LocalCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.ttl
	}

	entry := &cacheEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}

	if _, loaded := c.data.Swap(key, entry); !loaded {
		c.size.Add(1)
		c.evictOverflow(key)
	}
}

// GetOrLoad 获取缓存值，未命中时调用 load 加载并写入缓存
//
// 同一个键的并发调用只会触发一次 load；load 返回错误时不写入缓存。
//
// 返回值:
//   - interface{}: 缓存值
//   - bool: 是否命中缓存
//   - error: load 的错误
func (c *LocalCache) GetOrLoad(key string, ttl time.Duration, load func() (interface{}, error)) (interface{}, bool, error) {
	if val, ok := c.Get(key); ok {
		return val, true, nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if val, ok := c.Get(key); ok {
			return val, nil
		}
		val, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, val, ttl)
		return val, nil
	})
	return val, false, err
}

// Delete 删除缓存值
func (c *LocalCache) Delete(key string) {
	if _, ok := c.data.LoadAndDelete(key); ok {
		c.size.Add(-1)
	}
}

// Clear 清空所有缓存
func (c *LocalCache) Clear() {
	c.data.Range(func(key, _ interface{}) bool {
		c.Delete(key.(string))
		return true
	})
}

// Len 返回当前条目数（可能包含尚未清理的过期条目）
func (c *LocalCache) Len() int {
	return int(c.size.Load())
}

// Stop 停止后台清理，可重复调用
func (c *LocalCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictOverflow 超出容量时先清理过期条目，仍超出则淘汰最先过期的条目
func (c *LocalCache) evictOverflow(keep string) {
	if c.maxSize <= 0 || c.Len() <= c.maxSize {
		return
	}

	c.removeExpired()

	for c.Len() > c.maxSize {
		var (
			victim   string
			earliest time.Time
		)
		c.data.Range(func(key, value interface{}) bool {
			k := key.(string)
			entry := value.(*cacheEntry)
			if k != keep && (victim == "" || entry.expiresAt.Before(earliest)) {
				victim, earliest = k, entry.expiresAt
			}
			return true
		})
		if victim == "" {
			return
		}
		c.Delete(victim)
	}
}

// removeExpired 删除全部过期条目
func (c *LocalCache) removeExpired() {
	now := c.now()
	c.data.Range(func(key, value interface{}) bool {
		entry := value.(*cacheEntry)
		if now.After(entry.expiresAt) {
			c.Delete(key.(string))
		}
		return true
	})
}

// cleanupLoop 定期清理过期条目
func (c *LocalCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}
