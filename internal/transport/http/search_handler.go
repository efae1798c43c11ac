package httptransport

import (
	"github.com/gin-gonic/gin"

	"mailagent/dashboard/internal/search"
)

type searchResponse struct {
	Query string            `json:"query"`
	Items []search.EmailHit `json:"items"`
	Count int               `json:"count"`
}

type highlightResponse struct {
	HTML string `json:"html"`
}

// searchEmails godoc
// @Summary 搜索邮件
// @Description 支持 from:/subject:/category:/is:/has:/before:/after:/date: 过滤，结果按相关度排序并附带高亮
// @Tags Search
// @Produce json
// @Param q query string false "查询字符串"
// @Success 200 {object} Response{data=searchResponse}
// @Failure 502 {object} Response
// @Router /v1/search [get]
func (h *Handler) searchEmails(c *gin.Context) {
	query := c.Query("q")

	hits, err := h.search.SearchEmails(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, MsgSearchFailed)
		return
	}

	Success(c, searchResponse{Query: query, Items: hits, Count: len(hits)})
}

// globalSearch godoc
// @Summary 全局搜索
// @Description 同时搜索邮件、草稿与待办事项，并记录搜索历史
// @Tags Search
// @Produce json
// @Param q query string true "查询字符串"
// @Success 200 {object} Response{data=search.GlobalResult}
// @Failure 400 {object} Response
// @Failure 502 {object} Response
// @Router /v1/search/global [get]
func (h *Handler) globalSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		BadRequest(c, MsgQueryRequired)
		return
	}

	result, err := h.search.Global(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, MsgSearchFailed)
		return
	}

	Success(c, result)
}

// searchHistory godoc
// @Summary 搜索历史
// @Description 返回最近的搜索（最多10条）与各查询的次数
// @Tags Search
// @Produce json
// @Success 200 {object} Response{data=service.SearchHistory}
// @Failure 500 {object} Response
// @Router /v1/search/history [get]
func (h *Handler) searchHistory(c *gin.Context) {
	history, err := h.search.History(c.Request.Context())
	if err != nil {
		respondError(c, err, MsgHistoryLoadFailed)
		return
	}
	Success(c, history)
}

// clearSearchHistory godoc
// @Summary 清空搜索历史
// @Tags Search
// @Success 204
// @Failure 500 {object} Response
// @Router /v1/search/history [delete]
func (h *Handler) clearSearchHistory(c *gin.Context) {
	if err := h.search.ClearHistory(c.Request.Context()); err != nil {
		respondError(c, err, MsgHistoryClearFailed)
		return
	}
	NoContent(c)
}

// highlight godoc
// @Summary 高亮文本
// @Description 用 <mark> 包裹 text 中与整个查询字符串匹配的部分，不区分大小写
// @Tags Search
// @Produce json
// @Param text query string true "原始文本"
// @Param q query string false "查询字符串"
// @Success 200 {object} Response{data=highlightResponse}
// @Router /v1/highlight [get]
func (h *Handler) highlight(c *gin.Context) {
	Success(c, highlightResponse{HTML: h.search.Highlight(c.Query("text"), c.Query("q"))})
}
