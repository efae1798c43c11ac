package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailagent/dashboard/internal/agentapi"
	"mailagent/dashboard/internal/cache"
	"mailagent/dashboard/internal/config"
	"mailagent/dashboard/internal/health"
	"mailagent/dashboard/internal/history"
	"mailagent/dashboard/internal/logger"
	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/pool"
	"mailagent/dashboard/internal/service"
	redisstore "mailagent/dashboard/internal/storage/redis"
	httptransport "mailagent/dashboard/internal/transport/http"
	"mailagent/dashboard/internal/websocket"
	"mailagent/dashboard/internal/workspace"
)

const version = "0.3.0"

// healthInterval 后台健康巡检间隔
const healthInterval = 30 * time.Second

// main 启动邮件代理仪表盘服务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.FromConfig(cfg.Log))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting mail agent dashboard",
		zap.String("version", version),
		zap.String("agent_url", cfg.Agent.BaseURL),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化监控系统
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// 代理服务客户端
	agent, err := agentapi.New(agentapi.Config{
		BaseURL:   cfg.Agent.BaseURL,
		Timeout:   cfg.Agent.Timeout,
		RateLimit: cfg.Agent.RateLimit,
		Burst:     cfg.Agent.Burst,
		Logger:    log.Named("agentapi"),
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatal("failed to create agent api client", zap.Error(err))
	}

	checker := health.NewChecker(health.Config{
		Logger:  log.Named("health"),
		Metrics: metrics,
		Version: version,
	})
	checker.AddDependency("agent_api", agent)

	// 搜索历史存储
	store, closeStore := openHistoryStore(ctx, cfg, log, checker)
	defer closeStore()

	// 本地缓存与批量操作协程池
	localCache := cache.NewLocalCache(int(cfg.Cache.MaxSize), cfg.Cache.TTL)
	defer localCache.Stop()

	workers := pool.NewWorkerPool(cfg.Workers.Count, cfg.Workers.QueueSize, log.Named("pool"))
	workers.Start(ctx)
	defer workers.Stop()

	// WebSocket Hub 同时作为工作区事件的接收方
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, log.Named("websocket"), metrics)

	ws := workspace.New(agent, workspace.Config{
		Logger:   log.Named("workspace"),
		Metrics:  metrics,
		Cache:    localCache,
		CacheTTL: cfg.Cache.TTL,
		Pool:     workers,
		Notifier: wsHub,
	})

	searchService := service.NewSearchService(ws, store, metrics, log.Named("search"))

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:        cfg,
		Workspace:     ws,
		Agent:         agent,
		SearchService: searchService,
		WebSocketHub:  wsHub,
		Health:        checker,
		Metrics:       metrics,
		Logger:        log,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Agent.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// WebSocket Hub goroutine
	group.Go(func() error {
		log.Info("starting WebSocket hub")
		wsHub.Run(groupCtx)
		return nil
	})

	// 首次加载工作区数据，代理服务暂不可用时只记录告警
	group.Go(func() error {
		if err := ws.Initialize(groupCtx); err != nil {
			log.Warn("initial workspace load failed", zap.Error(err), zap.String("message", ws.Error()))
		}
		return nil
	})

	// 健康巡检 goroutine
	group.Go(func() error {
		log.Info("starting health watcher", zap.Duration("interval", healthInterval))
		checker.Watch(groupCtx, healthInterval)
		return nil
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("servers stopped")
		return nil
	})

	// 等待所有 goroutine 完成
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// openHistoryStore 根据配置创建搜索历史存储
//
// 使用 Redis 时注册就绪检查；连接失败则退回内存存储，服务仍可启动。
//
// 参数:
//   - ctx: 上下文
//   - cfg: 配置对象
//   - log: 日志记录器
//   - checker: 健康检查器
//
// 返回值:
//   - history.Store: 搜索历史存储
//   - func(): 关闭函数
func openHistoryStore(ctx context.Context, cfg *config.Config, log *zap.Logger, checker *health.Checker) (history.Store, func()) {
	if cfg.History.Backend != config.HistoryRedis {
		log.Info("using memory search history")
		return history.NewMemoryStore(), func() {}
	}

	client, err := redisstore.New(ctx, cfg.Redis, log.Named("redis"))
	if err != nil {
		log.Warn("redis unavailable, falling back to memory search history",
			zap.String("address", cfg.Redis.Address),
			zap.Error(err),
		)
		return history.NewMemoryStore(), func() {}
	}

	checker.AddDependency("redis", client)
	log.Info("using redis search history", zap.String("address", cfg.Redis.Address))

	return history.NewRedisStore(client.Client(), ""), func() { _ = client.Close() }
}
