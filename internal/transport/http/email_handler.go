package httptransport

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/search"
	"mailagent/dashboard/internal/workspace"
)

type emailListResponse struct {
	Items []domain.Email `json:"items"`
	Count int            `json:"count"`
}

type bulkRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// listEmails godoc
// @Summary 获取邮件列表
// @Description 收件箱列表视图：按分类、处理状态、时间范围与关键字过滤并排序
// @Tags Emails
// @Produce json
// @Param category query string false "分类，All 表示全部"
// @Param processed query bool false "只返回已处理邮件"
// @Param q query string false "关键字"
// @Param start query string false "起始时间（RFC3339 或 YYYY-MM-DD）"
// @Param end query string false "结束时间（RFC3339 或 YYYY-MM-DD）"
// @Param sort query string false "date_desc/date_asc/sender_asc/sender_desc/category"
// @Success 200 {object} Response{data=emailListResponse}
// @Failure 400 {object} Response
// @Failure 502 {object} Response
// @Router /v1/emails [get]
func (h *Handler) listEmails(c *gin.Context) {
	opts, ok := listOptionsFromQuery(c)
	if !ok {
		return
	}

	emails, err := h.search.ListEmails(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, workspace.MsgLoadEmails)
		return
	}

	Success(c, emailListResponse{Items: emails, Count: len(emails)})
}

// listCategories godoc
// @Summary 获取邮件分类
// @Description 返回当前邮件中出现过的分类
// @Tags Emails
// @Produce json
// @Success 200 {object} Response{data=[]string}
// @Router /v1/emails/categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.search.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, workspace.MsgLoadEmails)
		return
	}
	Success(c, categories)
}

// loadMockEmails godoc
// @Summary 载入样例邮件
// @Tags Emails
// @Produce json
// @Success 200 {object} Response
// @Failure 502 {object} Response
// @Router /v1/emails/load [post]
func (h *Handler) loadMockEmails(c *gin.Context) {
	summary, err := h.workspace.LoadMockEmails(c.Request.Context())
	if err != nil {
		respondError(c, err, workspace.MsgLoadMock)
		return
	}
	Success(c, summary)
}

// processEmails godoc
// @Summary 处理全部邮件
// @Description 对未处理邮件执行分类与待办提取
// @Tags Emails
// @Produce json
// @Success 200 {object} Response
// @Failure 502 {object} Response
// @Router /v1/emails/process [post]
func (h *Handler) processEmails(c *gin.Context) {
	summary, err := h.workspace.ProcessEmails(c.Request.Context())
	if err != nil {
		respondError(c, err, workspace.MsgProcessEmails)
		return
	}
	Success(c, summary)
}

// bulkProcessEmails godoc
// @Summary 批量处理邮件
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body bulkRequest true "邮件ID列表"
// @Success 200 {object} Response{data=workspace.BulkResult}
// @Failure 400 {object} Response
// @Router /v1/emails/bulk/process [post]
func (h *Handler) bulkProcessEmails(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	result, err := h.workspace.ProcessMany(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err, workspace.MsgProcessEmail)
		return
	}
	Success(c, result)
}

// bulkDeleteEmails godoc
// @Summary 批量删除邮件
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body bulkRequest true "邮件ID列表"
// @Success 200 {object} Response{data=workspace.BulkResult}
// @Failure 400 {object} Response
// @Router /v1/emails/bulk/delete [post]
func (h *Handler) bulkDeleteEmails(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	result, err := h.workspace.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err, workspace.MsgDeleteEmail)
		return
	}
	Success(c, result)
}

// getEmail godoc
// @Summary 获取邮件详情
// @Description 选中邮件，同时加载该邮件的草稿与待办
// @Tags Emails
// @Produce json
// @Param id path int true "邮件ID"
// @Success 200 {object} Response{data=domain.Email}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/emails/{id} [get]
func (h *Handler) getEmail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	email, err := h.workspace.SelectEmail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, workspace.MsgLoadEmail)
		return
	}
	Success(c, email)
}

// deleteEmail godoc
// @Summary 删除邮件
// @Tags Emails
// @Param id path int true "邮件ID"
// @Success 204
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /v1/emails/{id} [delete]
func (h *Handler) deleteEmail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.workspace.DeleteEmail(c.Request.Context(), id); err != nil {
		respondError(c, err, workspace.MsgDeleteEmail)
		return
	}
	NoContent(c)
}

// processEmail godoc
// @Summary 处理单封邮件
// @Tags Emails
// @Produce json
// @Param id path int true "邮件ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /v1/emails/{id}/process [post]
func (h *Handler) processEmail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.workspace.ProcessEmail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, workspace.MsgProcessEmail)
		return
	}
	Success(c, summary)
}

// reprocessEmail godoc
// @Summary 重新处理邮件
// @Description 使用当前提示词重新处理，返回重新加载后的邮件详情
// @Tags Emails
// @Produce json
// @Param id path int true "邮件ID"
// @Success 200 {object} Response{data=domain.Email}
// @Failure 400 {object} Response
// @Router /v1/emails/{id}/reprocess [post]
func (h *Handler) reprocessEmail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	email, err := h.workspace.ReprocessEmail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, workspace.MsgReprocessEmail)
		return
	}
	Success(c, email)
}

// bindIDs 解析批量操作的邮件 ID 列表
func bindIDs(c *gin.Context) ([]int64, bool) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return nil, false
	}
	if len(req.IDs) == 0 {
		BadRequest(c, MsgInvalidIDs)
		return nil, false
	}
	for _, id := range req.IDs {
		if id <= 0 {
			BadRequest(c, MsgInvalidID)
			return nil, false
		}
	}
	return req.IDs, true
}

// listOptionsFromQuery 解析收件箱列表视图的查询参数
func listOptionsFromQuery(c *gin.Context) (search.ListOptions, bool) {
	opts := search.ListOptions{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Sort:     search.SortMode(c.Query("sort")),
	}

	if raw := c.Query("processed"); raw != "" {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			BadRequest(c, MsgInvalidRequest)
			return opts, false
		}
		opts.ProcessedOnly = processed
	}

	var err error
	if opts.Start, err = parseBound(c.Query("start"), false); err != nil {
		BadRequest(c, MsgInvalidTime)
		return opts, false
	}
	if opts.End, err = parseBound(c.Query("end"), true); err != nil {
		BadRequest(c, MsgInvalidTime)
		return opts, false
	}
	return opts, true
}

// parseBound 解析时间边界；只给日期时 end 取当天最后一刻
func parseBound(raw string, end bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	if end {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}
