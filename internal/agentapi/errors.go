package agentapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// 可通过 errors.Is 匹配的错误类别
var (
	ErrTimeout      = errors.New("agent api: request timeout")
	ErrNetwork      = errors.New("agent api: network error")
	ErrNotFound     = errors.New("agent api: resource not found")
	ErrUnauthorized = errors.New("agent api: unauthorized")
	ErrForbidden    = errors.New("agent api: forbidden")
	ErrServer       = errors.New("agent api: server error")
	ErrRejected     = errors.New("agent api: request rejected")
)

// 面向用户的错误提示
const (
	MsgTimeout      = "Request timeout. Please try again."
	MsgNetwork      = "Network error. Please check your connection."
	MsgServer       = "Server error. Please try again later."
	MsgNotFound     = "Resource not found."
	MsgUnauthorized = "Unauthorized. Please check your credentials."
	MsgForbidden    = "Forbidden. You do not have permission."
	MsgUnexpected   = "An unexpected error occurred"
)

// APIError 代理服务调用失败
//
// Status 为 0 表示请求没有得到 HTTP 响应（超时或网络错误）。
type APIError struct {
	Status  int             `json:"status,omitempty"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"data,omitempty"`
	kind    error
	cause   error
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Unwrap 返回错误类别，使 errors.Is(err, ErrNotFound) 等判断成立
func (e *APIError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// HTTPStatus 返回适合回传给调用方的 HTTP 状态码
func (e *APIError) HTTPStatus() int {
	switch {
	case e.Status != 0:
		return e.Status
	case errors.Is(e.kind, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// newTransportError 包装没有得到响应的失败
func newTransportError(err error, timeout bool) *APIError {
	if timeout {
		return &APIError{Message: MsgTimeout, kind: ErrTimeout, cause: err}
	}
	return &APIError{Message: MsgNetwork, kind: ErrNetwork, cause: err}
}

// newStatusError 根据响应状态码与响应体生成错误
//
// 5xx/404/401/403 使用固定提示；其他状态码依次尝试响应体中的 error、message 字段。
func newStatusError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if json.Valid(body) {
		e.Body = json.RawMessage(body)
	}

	switch {
	case status >= 500:
		e.Message, e.kind = MsgServer, ErrServer
	case status == http.StatusNotFound:
		e.Message, e.kind = MsgNotFound, ErrNotFound
	case status == http.StatusUnauthorized:
		e.Message, e.kind = MsgUnauthorized, ErrUnauthorized
	case status == http.StatusForbidden:
		e.Message, e.kind = MsgForbidden, ErrForbidden
	default:
		e.kind = ErrRejected
		e.Message = bodyMessage(body)
		if e.Message == "" {
			e.Message = fmt.Sprintf("Error %d", status)
		}
	}
	return e
}

// bodyMessage 提取响应体中的 error 或 message 字段
func bodyMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// Message 返回面向用户的错误提示
//
// 参数:
//   - err: 任意错误
//   - fallback: err 不是 APIError 或提示为空时使用的文案
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback == "" {
		return MsgUnexpected
	}
	return fallback
}
