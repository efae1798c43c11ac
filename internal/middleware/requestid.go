package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mailagent/dashboard/internal/agentapi"
)

// requestIDKey 请求 ID 在 gin.Context 中的键
const requestIDKey = "requestID"

// maxRequestIDLength 接受客户端传入请求 ID 的最大长度
const maxRequestIDLength = 128

// RequestID 为每个请求分配请求 ID
//
// 优先使用客户端传入的 X-Request-ID，否则生成 UUID。请求 ID 写入响应头，
// 并放入请求上下文，代理服务客户端会把它转发给上游。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(agentapi.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(agentapi.HeaderRequestID, id)
		c.Request = c.Request.WithContext(agentapi.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// GetRequestID 返回当前请求的 ID，未经过 RequestID 中间件时返回空字符串
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
