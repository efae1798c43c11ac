package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/agentapi"
	"mailagent/dashboard/internal/domain"
)

// 错误消息映射表（校验错误 -> 中文消息）
var errorMessages = map[error]string{
	domain.ErrPromptNameRequired: "提示词名称不能为空",
	domain.ErrPromptNameTooLong:  "提示词名称过长（最多64个字符）",
	domain.ErrPromptTextRequired: "提示词内容不能为空",
	domain.ErrPromptTextTooLong:  "提示词内容过长（最多20000个字符）",
	domain.ErrQueryRequired:      "查询内容不能为空",
	domain.ErrQueryTooLong:       "查询内容过长（最多2000个字符）",
	domain.ErrInvalidChatContext: "对话上下文无效",
	domain.ErrEmailIDRequired:    "缺少邮件ID",
	domain.ErrTaskRequired:       "待办描述不能为空",
	domain.ErrTaskTooLong:        "待办描述过长（最多500个字符）",
	domain.ErrInvalidStatus:      "待办状态无效",
	domain.ErrSubjectTooLong:     "主题过长（最多500个字符）",
	domain.ErrBodyTooLong:        "正文过长（最大1MB）",
	domain.ErrEmptyUpdate:        "没有需要更新的字段",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	if msg, ok := errorMessages[err]; ok {
		return msg
	}
	return err.Error()
}

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest = "请求参数格式错误"
	MsgInvalidID      = "ID格式无效"
	MsgInvalidTime    = "时间格式无效，请使用 RFC3339 或 YYYY-MM-DD"
	MsgInvalidIDs     = "ID列表不能为空"
	MsgQueryRequired  = "缺少查询参数 q"
	MsgRouteNotFound  = "接口不存在"

	// 搜索相关
	MsgSearchFailed       = "搜索失败"
	MsgHistoryLoadFailed  = "获取搜索历史失败"
	MsgHistoryClearFailed = "清空搜索历史失败"

	// 代理服务相关
	MsgChatFailed       = "代理对话失败"
	MsgTestPromptFailed = "提示词测试失败"
)

// respondError 将错误转换为统一响应
//
// 代理服务错误沿用其状态码与提示；代理服务在 2xx 响应中拒绝的请求返回 400；
// 客户端取消或超时返回 408；其余错误返回 500 并使用 fallback。
func respondError(c *gin.Context, err error, fallback string) {
	var apiErr *agentapi.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.HTTPStatus()
		if status < http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		Error(c, status, agentapi.Message(err, fallback))
		return
	}

	if _, ok := errorMessages[err]; ok {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		Error(c, http.StatusRequestTimeout, agentapi.MsgTimeout)
		return
	}

	_ = c.Error(err)
	InternalError(c, fallback)
}
