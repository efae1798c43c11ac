package httptransport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"mailagent/dashboard/internal/config"
	"mailagent/dashboard/internal/domain"
	"mailagent/dashboard/internal/health"
	"mailagent/dashboard/internal/middleware"
	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/service"
	"mailagent/dashboard/internal/websocket"
	"mailagent/dashboard/internal/workspace"
)

// AgentService 直接透传给代理服务、不经过工作区缓存的调用，由 *agentapi.Client 实现
type AgentService interface {
	Chat(ctx context.Context, query string, chatContext domain.ChatContext, emailID int64) (*domain.ChatReply, error)
	TestPrompt(ctx context.Context, input domain.TestPromptInput) (domain.PromptTestResult, error)
}

// Handler 聚合所有 HTTP 处理逻辑。
type Handler struct {
	workspace *workspace.Workspace
	agent     AgentService
	search    *service.SearchService
	health    *health.Checker
	logger    *zap.Logger
}

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config        *config.Config
	Workspace     *workspace.Workspace
	Agent         AgentService
	SearchService *service.SearchService
	WebSocketHub  *websocket.Hub      // 为 nil 时不注册 /v1/ws
	Health        *health.Checker     // 为 nil 时 /health 只返回固定状态
	Metrics       *monitoring.Metrics // 为 nil 时不注册 /metrics
	Logger        *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	var monitor *middleware.MonitoringMiddleware
	if deps.Metrics != nil {
		monitor = middleware.NewMonitoringMiddleware(deps.Metrics, logger)
	}

	router.Use(middleware.RecoveryHandler(logger))
	if monitor != nil {
		router.Use(monitor.PanicRecovery())
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(deps.Config.Server.MaxBodyBytes))
	if monitor != nil {
		router.Use(monitor.HTTPMetrics())
	}

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	handler := &Handler{
		workspace: deps.Workspace,
		agent:     deps.Agent,
		search:    deps.SearchService,
		health:    deps.Health,
		logger:    logger,
	}

	// 未注册的路由同样返回统一响应格式
	router.NoRoute(func(c *gin.Context) {
		NotFound(c, MsgRouteNotFound)
	})

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查与指标
	router.GET("/health", handler.healthReport)
	if deps.Health != nil {
		router.GET("/health/live", gin.WrapF(deps.Health.LiveEndpoint))
		router.GET("/health/ready", gin.WrapF(deps.Health.ReadyEndpoint))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}

	// V1 API
	v1 := router.Group("/v1")
	{
		// ========== Search Routes ==========
		v1.GET("/search", handler.searchEmails)
		v1.GET("/search/global", handler.globalSearch)
		v1.GET("/search/history", handler.searchHistory)
		v1.DELETE("/search/history", handler.clearSearchHistory)
		v1.GET("/highlight", handler.highlight)

		// ========== Email Routes ==========
		emailRoutes := v1.Group("/emails")
		{
			emailRoutes.GET("", handler.listEmails)
			emailRoutes.GET("/categories", handler.listCategories)
			emailRoutes.POST("/load", handler.loadMockEmails)
			emailRoutes.POST("/process", handler.processEmails)
			emailRoutes.POST("/bulk/process", handler.bulkProcessEmails)
			emailRoutes.POST("/bulk/delete", handler.bulkDeleteEmails)
			emailRoutes.GET("/:id", handler.getEmail)
			emailRoutes.DELETE("/:id", handler.deleteEmail)
			emailRoutes.POST("/:id/process", handler.processEmail)
			emailRoutes.POST("/:id/reprocess", handler.reprocessEmail)
		}

		// ========== Prompt Routes ==========
		promptRoutes := v1.Group("/prompts")
		{
			promptRoutes.GET("", handler.listPrompts)
			promptRoutes.POST("", handler.createPrompt)
			promptRoutes.POST("/reset", handler.resetPrompts)
			promptRoutes.POST("/test", handler.testPrompt)
			promptRoutes.PUT("/:id", handler.updatePrompt)
			promptRoutes.DELETE("/:id", handler.deletePrompt)
		}

		// ========== Agent & Draft Routes ==========
		v1.POST("/agent/chat", handler.chat)
		v1.POST("/agent/draft", handler.generateDraft)
		draftRoutes := v1.Group("/drafts")
		{
			draftRoutes.GET("", handler.listDrafts)
			draftRoutes.PUT("/:id", handler.updateDraft)
			draftRoutes.DELETE("/:id", handler.deleteDraft)
		}

		// ========== Action Routes ==========
		actionRoutes := v1.Group("/actions")
		{
			actionRoutes.GET("", handler.listActions)
			actionRoutes.GET("/pending", handler.pendingActions)
			actionRoutes.POST("", handler.createAction)
			actionRoutes.PATCH("/:id/status", handler.updateActionStatus)
		}

		// ========== Stats Routes ==========
		v1.GET("/stats", handler.getStats)
		v1.POST("/stats/refresh", handler.refreshStats)
		v1.GET("/workspace", handler.getWorkspace)

		// ========== WebSocket Routes ==========
		if deps.WebSocketHub != nil {
			v1.GET("/ws", websocket.HandleWebSocket(deps.WebSocketHub))
		}
	}

	return router
}

// parseID 解析路径中的正整数 ID，失败时直接写入 400 响应
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, MsgInvalidID)
		return 0, false
	}
	return id, true
}

// wantsRefresh 判断是否要求先从代理服务重新加载（?refresh=1 / true）
func wantsRefresh(c *gin.Context) bool {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	return refresh
}

// healthReport godoc
// @Summary 健康检查
// @Description 汇总存活与就绪检查；unhealthy 时返回 503
// @Tags System
// @Produce json
// @Success 200 {object} health.Report
// @Failure 503 {object} health.Report
// @Router /health [get]
func (h *Handler) healthReport(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": health.StatusHealthy})
		return
	}

	report := h.health.CheckHealth()
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
