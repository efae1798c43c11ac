package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// 代理服务调用指标
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// 搜索指标
	SearchesTotal   *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	SearchResults   *prometheus.HistogramVec
	HistoryFailures prometheus.Counter

	// 工作区指标
	WorkspaceEmails  prometheus.Gauge
	WorkspaceReloads *prometheus.CounterVec
	CacheHits        *prometheus.CounterVec
	WebsocketClients prometheus.Gauge

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter

	// 系统指标
	SystemUptime prometheus.Gauge

	registry prometheus.Gatherer
}

// NewMetrics 创建监控指标
//
// 参数:
//   - reg: 指标注册表，为 nil 时使用 Prometheus 默认注册表
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP 请求指标
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailagent_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailagent_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),

		// 代理服务调用指标
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_upstream_requests_total",
				Help: "Total number of requests sent to the agent API",
			},
			[]string{"method", "endpoint", "outcome"},
		),

		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailagent_upstream_request_duration_seconds",
				Help:    "Agent API request duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),

		// 搜索指标
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_searches_total",
				Help: "Total number of searches",
			},
			[]string{"kind"},
		),

		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailagent_search_duration_seconds",
				Help:    "Search duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind"},
		),

		SearchResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailagent_search_results",
				Help:    "Number of results returned by a search",
				Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100, 250},
			},
			[]string{"kind"},
		),

		HistoryFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mailagent_search_history_failures_total",
				Help: "Total number of failed search history writes",
			},
		),

		// 工作区指标
		WorkspaceEmails: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailagent_workspace_emails",
				Help: "Number of emails held by the workspace",
			},
		),

		WorkspaceReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_workspace_reloads_total",
				Help: "Total number of workspace reloads",
			},
			[]string{"resource"},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_cache_lookups_total",
				Help: "Total number of cache lookups",
			},
			[]string{"result"},
		),

		WebsocketClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailagent_websocket_clients",
				Help: "Number of connected websocket clients",
			},
		),

		// 错误指标
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailagent_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mailagent_panics_total",
				Help: "Total number of panics",
			},
		),

		// 系统指标
		SystemUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailagent_system_uptime_seconds",
				Help: "System uptime in seconds",
			},
		),

		registry: gatherer,
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration, responseSize int64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordUpstreamRequest 记录代理服务调用
//
// 参数:
//   - method: HTTP 方法
//   - endpoint: 路由模板（如 /api/emails/:id）
//   - outcome: ok / http_4xx / http_5xx / timeout / network
//   - duration: 调用耗时
func (m *Metrics) RecordUpstreamRequest(method, endpoint, outcome string, duration time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSearch 记录一次搜索
func (m *Metrics) RecordSearch(kind string, duration time.Duration, results int) {
	m.SearchesTotal.WithLabelValues(kind).Inc()
	m.SearchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.SearchResults.WithLabelValues(kind).Observe(float64(results))
}

// RecordHistoryFailure 记录搜索历史写入失败
func (m *Metrics) RecordHistoryFailure() {
	m.HistoryFailures.Inc()
}

// RecordWorkspaceReload 记录工作区资源重新加载
func (m *Metrics) RecordWorkspaceReload(resource string) {
	m.WorkspaceReloads.WithLabelValues(resource).Inc()
}

// RecordCacheLookup 记录缓存查询结果
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheHits.WithLabelValues(result).Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// UpdateWorkspaceEmails 更新工作区邮件数
func (m *Metrics) UpdateWorkspaceEmails(count int) {
	m.WorkspaceEmails.Set(float64(count))
}

// UpdateWebsocketClients 更新 WebSocket 连接数
func (m *Metrics) UpdateWebsocketClients(count int) {
	m.WebsocketClients.Set(float64(count))
}

// UpdateSystemUptime 更新系统运行时间
func (m *Metrics) UpdateSystemUptime(uptime time.Duration) {
	m.SystemUptime.Set(uptime.Seconds())
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
