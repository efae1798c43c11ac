package httptransport

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/search"
	"mailagent/dashboard/internal/workspace"
)

type draftListResponse struct {
	Items []domain.Draft `json:"items"`
	Count int            `json:"count"`
}

// chat godoc
// @Summary 与邮件代理对话
// @Description context 未指定时：urgent 为 true 使用 urgent，给出 emailId 使用 specific_email，否则 all_emails
// @Tags Agent
// @Accept json
// @Produce json
// @Param request body domain.ChatInput true "对话内容"
// @Success 200 {object} Response{data=domain.ChatReply}
// @Failure 400 {object} Response
// @Failure 502 {object} Response
// @Router /v1/agent/chat [post]
func (h *Handler) chat(c *gin.Context) {
	var input domain.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	reply, err := h.agent.Chat(c.Request.Context(), input.Query, input.ResolveContext(), input.EmailID)
	if err != nil {
		respondError(c, err, MsgChatFailed)
		return
	}
	Success(c, reply)
}

// generateDraft godoc
// @Summary 生成回复草稿
// @Tags Agent
// @Accept json
// @Produce json
// @Param request body domain.GenerateDraftInput true "邮件ID与附加说明"
// @Success 201 {object} Response{data=domain.Draft}
// @Failure 400 {object} Response
// @Router /v1/agent/draft [post]
func (h *Handler) generateDraft(c *gin.Context) {
	var input domain.GenerateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	draft, err := h.workspace.GenerateDraft(c.Request.Context(), input.EmailID, input.CustomInstructions)
	if err != nil {
		respondError(c, err, workspace.MsgGenerateDraft)
		return
	}
	Created(c, draft)
}

// listDrafts godoc
// @Summary 获取草稿列表
// @Description 草稿管理视图：按邮件、关键字过滤并排序
// @Tags Drafts
// @Produce json
// @Param emailId query int false "邮件ID"
// @Param q query string false "关键字"
// @Param sort query string false "updated_desc/updated_asc/created_desc/created_asc"
// @Param refresh query bool false "先从代理服务重新加载"
// @Success 200 {object} Response{data=draftListResponse}
// @Failure 400 {object} Response
// @Router /v1/drafts [get]
func (h *Handler) listDrafts(c *gin.Context) {
	opts := search.DraftListOptions{
		Query: c.Query("q"),
		Sort:  search.SortMode(c.Query("sort")),
	}
	if raw := c.Query("emailId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			BadRequest(c, MsgInvalidID)
			return
		}
		opts.EmailID = id
	}

	if wantsRefresh(c) {
		if err := h.workspace.LoadDrafts(c.Request.Context(), 0); err != nil {
			respondError(c, err, workspace.MsgLoadDrafts)
			return
		}
	}

	drafts := h.search.ListDrafts(opts)
	Success(c, draftListResponse{Items: drafts, Count: len(drafts)})
}

// updateDraft godoc
// @Summary 更新草稿
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path int true "草稿ID"
// @Param request body domain.UpdateDraftInput true "主题与正文"
// @Success 200 {object} Response{data=domain.Draft}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/drafts/{id} [put]
func (h *Handler) updateDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if err := input.Validate(); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	draft, err := h.workspace.UpdateDraft(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, workspace.MsgUpdateDraft)
		return
	}
	Success(c, draft)
}

// deleteDraft godoc
// @Summary 删除草稿
// @Tags Drafts
// @Param id path int true "草稿ID"
// @Success 204
// @Failure 404 {object} Response
// @Router /v1/drafts/{id} [delete]
func (h *Handler) deleteDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.workspace.DeleteDraft(c.Request.Context(), id); err != nil {
		respondError(c, err, workspace.MsgDeleteDraft)
		return
	}
	NoContent(c)
}
