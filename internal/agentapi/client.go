package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mailagent/dashboard/internal/monitoring"
)

// 默认配置
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID 透传给代理服务的请求 ID
	HeaderRequestID = "X-Request-ID"

	maxResponseBytes = 16 << 20
)

// Config 客户端配置
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // 每秒请求数，<= 0 表示不限流
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *monitoring.Metrics
}

// Client 代理服务 HTTP 客户端
//
// 所有方法并发安全。
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// New 创建代理服务客户端
//
// 参数:
//   - cfg: 客户端配置，零值字段使用默认值
//
// 返回值:
//   - *Client: 客户端实例
//   - error: BaseURL 无法解析时返回错误
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse agent base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("agent base url must be absolute: %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL 返回代理服务地址
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping 检查代理服务是否可达
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.EmailStats(ctx)
	return err
}

// call 描述一次代理服务调用
type call struct {
	method string
	route  string // 路由模板，用于日志与指标
	path   string
	query  url.Values
	body   interface{}
}

// do 执行请求并将响应数据解码到 out
func (c *Client) do(ctx context.Context, req call, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("agent api rate limit: %w", err)
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + req.path
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.route, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.route, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	c.logger.Debug("Agent API request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return ctx.Err()
		}
		apiErr := newTransportError(err, isTimeout(err))
		c.observe(req, outcomeOf(apiErr), start, requestID, apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		apiErr := newTransportError(err, isTimeout(err))
		c.observe(req, outcomeOf(apiErr), start, requestID, apiErr)
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newStatusError(resp.StatusCode, raw)
		c.observe(req, outcomeOf(apiErr), start, requestID, apiErr)
		return apiErr
	}

	data, apiErr := unwrapEnvelope(resp.StatusCode, raw)
	if apiErr != nil {
		c.observe(req, "rejected", start, requestID, apiErr)
		return apiErr
	}
	c.observe(req, "ok", start, requestID, nil)

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.route, err)
	}
	return nil
}

// observe 记录调用日志与指标
func (c *Client) observe(req call, outcome string, start time.Time, requestID string, err error) {
	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(req.method, req.route, outcome, duration)
	}

	fields := []zap.Field{
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.String("request_id", requestID),
		zap.Duration("duration", duration),
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			fields = append(fields, zap.Int("status", apiErr.Status))
		}
		c.logger.Warn("Agent API error", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Debug("Agent API response", fields...)
}

// unwrapEnvelope 解开 {success, data, error} 包装
//
// data 字段存在且非空值时返回 data，否则返回整个响应体。
// success 显式为 false 时视为失败。
func unwrapEnvelope(status int, raw []byte) (json.RawMessage, *APIError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed, nil
	}

	if envelope.Success != nil && !*envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = MsgUnexpected
		}
		return nil, &APIError{Status: status, Message: msg, Body: json.RawMessage(trimmed), kind: ErrRejected}
	}

	if truthy(envelope.Data) {
		return envelope.Data, nil
	}
	return trimmed, nil
}

// truthy 判断 JSON 值是否为非空值（null/false/0/"" 视为空）
func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeOf(err *APIError) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	case err.Status >= 500:
		return "http_5xx"
	default:
		return "http_4xx"
	}
}

type requestIDKey struct{}

// WithRequestID 将请求 ID 写入 context，后续调用会透传给代理服务
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 读取 context 中的请求 ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
