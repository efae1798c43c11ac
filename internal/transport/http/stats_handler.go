package httptransport

import (
	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/workspace"
)

type statsResponse struct {
	Stats  domain.Stats           `json:"stats"`
	Counts domain.DashboardCounts `json:"counts"`
}

// getStats godoc
// @Summary 获取仪表盘统计
// @Description 代理服务返回的邮件/待办统计，以及工作区本地推导的计数
// @Tags Stats
// @Produce json
// @Success 200 {object} Response{data=statsResponse}
// @Router /v1/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	Success(c, h.statsSnapshot())
}

// refreshStats godoc
// @Summary 刷新统计
// @Tags Stats
// @Produce json
// @Success 200 {object} Response{data=statsResponse}
// @Failure 502 {object} Response
// @Router /v1/stats/refresh [post]
func (h *Handler) refreshStats(c *gin.Context) {
	if err := h.workspace.RefreshStats(c.Request.Context()); err != nil {
		respondError(c, err, workspace.MsgLoadStats)
		return
	}
	Success(c, h.statsSnapshot())
}

// getWorkspace godoc
// @Summary 获取工作区快照
// @Description 当前邮件、选中邮件、提示词、草稿、待办、统计以及最近一次错误
// @Tags Stats
// @Produce json
// @Success 200 {object} Response{data=workspace.Snapshot}
// @Router /v1/workspace [get]
func (h *Handler) getWorkspace(c *gin.Context) {
	Success(c, h.workspace.Snapshot())
}

func (h *Handler) statsSnapshot() statsResponse {
	return statsResponse{
		Stats:  h.workspace.Stats(),
		Counts: h.workspace.Counts(),
	}
}
