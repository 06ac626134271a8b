package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studysprint_backend/internal/config"
	"studysprint_backend/internal/controller"
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"
	"studysprint_backend/pkg/database"
	"studysprint_backend/pkg/logger"
	"studysprint_backend/pkg/monitoring"
	"studysprint_backend/pkg/security"
	"studysprint_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type services struct {
	session   *service.SessionService
	pageTimer *service.PageTimerService
	pomodoro  *service.PomodoroService
	analytics *service.AnalyticsService
	estimate  *service.EstimateService
}

type controllers struct {
	session   *controller.SessionController
	pageTimer *controller.PageTimerController
	pomodoro  *controller.PomodoroController
	analytics *controller.AnalyticsController
	estimate  *controller.EstimateController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口。只替换策略参数，
// 数据库/端口等需要重启才生效的配置不在此处处理。
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.Config.Session = newCfg.Session
	a.Config.RateLimit = newCfg.RateLimit
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("configuration reloaded",
		zap.Int("stale_after_minutes", newCfg.Session.StaleAfterMinutes))
}

func (a *App) initServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	// 会话锁全局一把：会话、页面计时、番茄周期三个服务
	// 都会读改写同一会话行，必须共享互斥
	sessionMu := util.NewKeyedMutex()
	return &services{
		session:   service.NewSessionService(db, rdb, cfg, sessionMu),
		pageTimer: service.NewPageTimerService(db, sessionMu),
		pomodoro:  service.NewPomodoroService(db, sessionMu),
		analytics: service.NewAnalyticsService(db),
		estimate:  service.NewEstimateService(db, cfg),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		session:   controller.NewSessionController(s.session),
		pageTimer: controller.NewPageTimerController(s.pageTimer),
		pomodoro:  controller.NewPomodoroController(s.pomodoro),
		analytics: controller.NewAnalyticsController(s.analytics),
		estimate:  controller.NewEstimateController(s.estimate),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 后台定时清理长时间无更新的活跃会话
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			s.session.EndStaleSessions(context.Background())
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	services := app.initServices(cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("studysprint-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
