package httptransport

import (
	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/workspace"
)

// listPrompts godoc
// @Summary 获取提示词列表
// @Tags Prompts
// @Produce json
// @Param refresh query bool false "先从代理服务重新加载"
// @Success 200 {object} Response{data=[]domain.Prompt}
// @Router /v1/prompts [get]
func (h *Handler) listPrompts(c *gin.Context) {
	if wantsRefresh(c) {
		if err := h.workspace.LoadPrompts(c.Request.Context()); err != nil {
			respondError(c, err, workspace.MsgLoadPrompts)
			return
		}
	}
	Success(c, h.workspace.Prompts())
}

// createPrompt godoc
// @Summary 创建提示词
// @Tags Prompts
// @Accept json
// @Produce json
// @Param request body domain.CreatePromptInput true "提示词"
// @Success 201 {object} Response{data=domain.Prompt}
// @Failure 400 {object} Response
// @Router /v1/prompts [post]
func (h *Handler) createPrompt(c *gin.Context) {
	var input domain.CreatePromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	prompt, err := h.workspace.CreatePrompt(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, workspace.MsgCreatePrompt)
		return
	}
	Created(c, prompt)
}

// updatePrompt godoc
// @Summary 更新提示词
// @Tags Prompts
// @Accept json
// @Produce json
// @Param id path int true "提示词ID"
// @Param request body domain.UpdatePromptInput true "更新内容"
// @Success 200 {object} Response{data=domain.Prompt}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/prompts/{id} [put]
func (h *Handler) updatePrompt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input domain.UpdatePromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	prompt, err := h.workspace.UpdatePrompt(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, workspace.MsgUpdatePrompt)
		return
	}
	Success(c, prompt)
}

// deletePrompt godoc
// @Summary 删除提示词
// @Tags Prompts
// @Param id path int true "提示词ID"
// @Success 204
// @Failure 404 {object} Response
// @Router /v1/prompts/{id} [delete]
func (h *Handler) deletePrompt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.workspace.DeletePrompt(c.Request.Context(), id); err != nil {
		respondError(c, err, workspace.MsgDeletePrompt)
		return
	}
	NoContent(c)
}

// resetPrompts godoc
// @Summary 恢复默认提示词
// @Tags Prompts
// @Produce json
// @Success 200 {object} Response{data=[]domain.Prompt}
// @Router /v1/prompts/reset [post]
func (h *Handler) resetPrompts(c *gin.Context) {
	if err := h.workspace.ResetPrompts(c.Request.Context()); err != nil {
		respondError(c, err, workspace.MsgResetPrompts)
		return
	}
	SuccessWithMsg(c, "已恢复默认提示词", h.workspace.Prompts())
}

// testPrompt godoc
// @Summary 测试提示词
// @Description 用样例邮件或样例文本试运行提示词，结果由代理服务决定
// @Tags Prompts
// @Accept json
// @Produce json
// @Param request body domain.TestPromptInput true "测试参数"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /v1/prompts/test [post]
func (h *Handler) testPrompt(c *gin.Context) {
	var input domain.TestPromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	result, err := h.agent.TestPrompt(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, MsgTestPromptFailed)
		return
	}
	Success(c, result)
}
