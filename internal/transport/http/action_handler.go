package httptransport

import (
	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/workspace"
)

type actionListResponse struct {
	Items []domain.ActionItem `json:"items"`
	Count int                 `json:"count"`
}

type updateActionStatusRequest struct {
	Status domain.ActionStatus `json:"status" binding:"required"`
}

// listActions godoc
// @Summary 获取待办列表
// @Description 从代理服务重新加载全部待办，可按状态过滤
// @Tags Actions
// @Produce json
// @Param status query string false "pending/completed"
// @Success 200 {object} Response{data=actionListResponse}
// @Failure 400 {object} Response
// @Router /v1/actions [get]
func (h *Handler) listActions(c *gin.Context) {
	status := domain.ActionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		BadRequest(c, GetErrorMessage(domain.ErrInvalidStatus))
		return
	}

	if err := h.workspace.LoadActions(c.Request.Context(), 0); err != nil {
		respondError(c, err, workspace.MsgLoadActions)
		return
	}

	items := make([]domain.ActionItem, 0)
	for _, a := range h.workspace.Actions() {
		if status == "" || a.Status == status {
			items = append(items, a)
		}
	}
	Success(c, actionListResponse{Items: items, Count: len(items)})
}

// pendingActions godoc
// @Summary 获取待处理的待办
// @Tags Actions
// @Produce json
// @Success 200 {object} Response{data=actionListResponse}
// @Router /v1/actions/pending [get]
func (h *Handler) pendingActions(c *gin.Context) {
	items := h.workspace.PendingActions()
	Success(c, actionListResponse{Items: items, Count: len(items)})
}

// createAction godoc
// @Summary 创建待办
// @Tags Actions
// @Accept json
// @Produce json
// @Param request body domain.CreateActionInput true "待办内容"
// @Success 201 {object} Response{data=domain.ActionItem}
// @Failure 400 {object} Response
// @Router /v1/actions [post]
func (h *Handler) createAction(c *gin.Context) {
	var input domain.CreateActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	item, err := h.workspace.CreateAction(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, workspace.MsgCreateAction)
		return
	}
	Created(c, item)
}

// updateActionStatus godoc
// @Summary 更新待办状态
// @Tags Actions
// @Accept json
// @Produce json
// @Param id path int true "待办ID"
// @Param request body updateActionStatusRequest true "新状态"
// @Success 200 {object} Response{data=domain.ActionItem}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/actions/{id}/status [patch]
func (h *Handler) updateActionStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateActionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if !req.Status.Valid() {
		BadRequest(c, GetErrorMessage(domain.ErrInvalidStatus))
		return
	}

	item, err := h.workspace.UpdateActionStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, workspace.MsgUpdateAction)
		return
	}
	Success(c, item)
}
