package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host            string        // 监听地址，默认 "0.0.0.0"
	Port            int           // 监听端口，默认 8080
	ShutdownTimeout time.Duration // 优雅关闭的最长等待时间，默认 10 秒
	MaxBodyBytes    int64         // 请求体大小上限，默认 1MB
}

// AgentConfig 定义远端代理服务 (agent API) 的访问配置
type AgentConfig struct {
	BaseURL   string        // 代理服务地址，默认 "http://localhost:5000"
	Timeout   time.Duration // 单次请求超时，默认 30 秒
	RateLimit float64       // 每秒请求数上限，0 表示不限流
	Burst     int           // 限流突发容量
}

// CacheConfig 定义本地缓存配置
type CacheConfig struct {
	TTL     time.Duration // 邮件列表快照的有效期，默认 30 秒
	MaxSize int64         // 最大条目数
}

// HistoryConfig 定义搜索历史的存储后端
type HistoryConfig struct {
	Backend string // "memory" 或 "redis"
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
	File        string // 日志文件路径，留空时只输出到标准输出
}

// RedisConfig 定义 Redis 服务配置
type RedisConfig struct {
	Address  string // Redis 服务地址，格式 "host:port"，默认 "localhost:6379"
	Password string // Redis 认证密码，留空表示无密码
	DB       int    // Redis 数据库编号，默认 0
}

// WorkersConfig 定义批量操作使用的工作池
type WorkersConfig struct {
	Count     int // 工作协程数
	QueueSize int // 任务队列长度
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server  ServerConfig
	Agent   AgentConfig
	Cache   CacheConfig
	History HistoryConfig
	CORS    CORSConfig
	Log     LogConfig
	Redis   RedisConfig
	Workers WorkersConfig
}

// 搜索历史后端
const (
	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: MAILAGENT_
// 例如: MAILAGENT_SERVER_PORT, MAILAGENT_AGENT_BASE_URL
//
// 返回值:
//   - *Config: 加载成功的配置对象
//   - error: 配置验证失败时返回错误
func Load() (*Config, error) {
	// .env 是可选的
	loadEnvFile()

	v := viper.New()
	v.SetEnvPrefix("mailagent")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("agent.base_url", "http://localhost:5000")
	v.SetDefault("agent.timeout", "30s")
	v.SetDefault("agent.rate_limit", 0)
	v.SetDefault("agent.burst", 10)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("history.backend", HistoryMemory)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("workers.count", 4)
	v.SetDefault("workers.queue_size", 64)

	port := v.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid server.port: %d", port)
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(v.GetString("agent.base_url")), "/")
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid agent.base_url: %q", baseURL)
	}

	agentTimeout, err := time.ParseDuration(v.GetString("agent.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid agent.timeout: %w", err)
	}
	if agentTimeout <= 0 {
		return nil, fmt.Errorf("agent.timeout must be positive")
	}

	rateLimit := v.GetFloat64("agent.rate_limit")
	if rateLimit < 0 {
		return nil, fmt.Errorf("agent.rate_limit must not be negative")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache.ttl: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("history.backend")))
	if backend != HistoryMemory && backend != HistoryRedis {
		return nil, fmt.Errorf("history.backend must be %q or %q, got %q", HistoryMemory, HistoryRedis, backend)
	}

	corsOrigins := parseList(v.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	workers := v.GetInt("workers.count")
	if workers <= 0 {
		workers = 1
	}
	queueSize := v.GetInt("workers.queue_size")
	if queueSize <= 0 {
		queueSize = workers
	}

	maxBody := v.GetInt64("server.max_body_bytes")
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            port,
			ShutdownTimeout: shutdownTimeout,
			MaxBodyBytes:    maxBody,
		},
		Agent: AgentConfig{
			BaseURL:   baseURL,
			Timeout:   agentTimeout,
			RateLimit: rateLimit,
			Burst:     v.GetInt("agent.burst"),
		},
		Cache: CacheConfig{
			TTL:     cacheTTL,
			MaxSize: v.GetInt64("cache.max_size"),
		},
		History: HistoryConfig{
			Backend: backend,
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
			File:        v.GetString("log.file"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Workers: WorkersConfig{
			Count:     workers,
			QueueSize: queueSize,
		},
	}

	return cfg, nil
}

// Addr 返回 HTTP 监听地址 "host:port"
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// parseList 将逗号分隔的字符串解析为字符串切片
//
// 参数:
//   - value: 逗号分隔的字符串，如 "item1,item2,item3"
//
// 返回值:
//   - []string: 解析后的字符串切片，已去除空白字符
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env
//
// 文件不存在时静默跳过，已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
