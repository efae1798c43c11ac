package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"mailagent/dashboard/internal/monitoring"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// 默认参数
const (
	DefaultTimeout       = 3 * time.Second
	DefaultMaxGoroutines = 10000
)

// Pinger 可探测的外部依赖（代理服务、Redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc 将普通函数适配为 Pinger
type PingFunc func(ctx context.Context) error

// Ping 调用 f(ctx)
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// CheckResult 单项检查结果
type CheckResult struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"` // liveness / readiness
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Report 健康报告
type Report struct {
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Uptime    time.Duration `json:"uptime"`
	Version   string        `json:"version,omitempty"`
	Checks    []CheckResult `json:"checks"`
}

// Config 健康检查配置
type Config struct {
	Logger        *zap.Logger
	Metrics       *monitoring.Metrics
	Version       string
	Timeout       time.Duration // 单项依赖检查的超时
	MaxGoroutines int           // 存活检查的协程数上限
}

type namedCheck struct {
	name  string
	kind  string
	check healthcheck.Check
}

// Checker 健康检查器
//
// 存活检查只关心进程自身；就绪检查探测代理服务与 Redis 等外部依赖。
type Checker struct {
	health  healthcheck.Handler
	logger  *zap.Logger
	metrics *monitoring.Metrics
	version string
	timeout time.Duration
	started time.Time

	mu     sync.RWMutex
	checks []namedCheck
}

// NewChecker 创建健康检查器并注册协程数存活检查
func NewChecker(cfg Config) *Checker {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxGoroutines := cfg.MaxGoroutines
	if maxGoroutines <= 0 {
		maxGoroutines = DefaultMaxGoroutines
	}

	hc := &Checker{
		health:  healthcheck.NewHandler(),
		logger:  logger,
		metrics: cfg.Metrics,
		version: cfg.Version,
		timeout: timeout,
		started: time.Now(),
	}

	hc.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(maxGoroutines))
	return hc
}

// AddLivenessCheck 注册存活检查
func (hc *Checker) AddLivenessCheck(name string, check healthcheck.Check) {
	hc.health.AddLivenessCheck(name, check)
	hc.mu.Lock()
	hc.checks = append(hc.checks, namedCheck{name: name, kind: "liveness", check: check})
	hc.mu.Unlock()
}

// AddDependency 注册外部依赖的就绪检查，探测超过超时时间视为失败
func (hc *Checker) AddDependency(name string, dep Pinger) {
	check := healthcheck.Timeout(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
		defer cancel()
		return dep.Ping(ctx)
	}, hc.timeout)

	hc.health.AddReadinessCheck(name, check)
	hc.mu.Lock()
	hc.checks = append(hc.checks, namedCheck{name: name, kind: "readiness", check: check})
	hc.mu.Unlock()
}

// Handler 返回同时处理 /live 与 /ready 的处理器
func (hc *Checker) Handler() http.Handler {
	return hc.health
}

// LiveEndpoint 存活检查端点
func (hc *Checker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.LiveEndpoint(w, r)
}

// ReadyEndpoint 就绪检查端点
func (hc *Checker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	hc.health.ReadyEndpoint(w, r)
}

// Uptime 返回运行时间
func (hc *Checker) Uptime() time.Duration {
	return time.Since(hc.started)
}

// CheckHealth 执行全部检查并汇总
//
// 任一存活检查失败为 unhealthy；仅就绪检查失败为 degraded。
func (hc *Checker) CheckHealth() Report {
	hc.mu.RLock()
	checks := make([]namedCheck, len(hc.checks))
	copy(checks, hc.checks)
	hc.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Uptime:    hc.Uptime(),
		Version:   hc.version,
		Checks:    make([]CheckResult, 0, len(checks)),
	}

	for _, c := range checks {
		start := time.Now()
		result := CheckResult{Name: c.name, Kind: c.kind, Status: StatusHealthy, Message: "OK"}

		if err := c.check(); err != nil {
			result.Message = err.Error()
			if c.kind == "liveness" {
				result.Status = StatusUnhealthy
				report.Status = StatusUnhealthy
			} else {
				result.Status = StatusDegraded
				if report.Status != StatusUnhealthy {
					report.Status = StatusDegraded
				}
			}
		}

		result.Duration = time.Since(start)
		report.Checks = append(report.Checks, result)
	}

	sort.SliceStable(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})
	return report
}

// Watch 定期执行健康检查，状态变化时记录日志，并更新运行时间指标
func (hc *Checker) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := StatusHealthy
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := hc.CheckHealth()
			if hc.metrics != nil {
				hc.metrics.UpdateSystemUptime(report.Uptime)
			}
			if report.Status == last {
				continue
			}

			fields := []zap.Field{
				zap.String("status", string(report.Status)),
				zap.String("previous", string(last)),
				zap.Duration("uptime", report.Uptime),
			}
			for _, c := range report.Checks {
				if c.Status != StatusHealthy {
					fields = append(fields, zap.String(c.Name, c.Message))
				}
			}

			switch report.Status {
			case StatusUnhealthy:
				hc.logger.Error("health check failed", fields...)
			case StatusDegraded:
				hc.logger.Warn("health check degraded", fields...)
			default:
				hc.logger.Info("health check recovered", fields...)
			}
			last = report.Status
		}
	}
}
