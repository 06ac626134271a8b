package app

import (
	"studysprint_backend/docs"
	"studysprint_backend/internal/config"
	"studysprint_backend/internal/middleware"
	"studysprint_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		timer := authGroup.Group("/timer")
		{
			sessions := timer.Group("/sessions")
			{
				sessions.POST("/start", c.session.Start)
				sessions.GET("/active", c.session.GetActive)
				sessions.GET("", c.session.History)
				sessions.POST("/:id/pause", c.session.Pause)
				sessions.POST("/:id/resume", c.session.Resume)
				sessions.POST("/:id/end", c.session.End)
				sessions.PATCH("/:id/activity", c.session.UpdateActivity)
				sessions.GET("/:id/pomodoro", c.pomodoro.ListBySession)
			}

			pages := timer.Group("/pages")
			{
				pages.POST("/start", c.pageTimer.Start)
				pages.POST("/:id/end", c.pageTimer.End)
				pages.PATCH("/:id/activity", c.pageTimer.UpdateActivity)
			}

			pomodoro := timer.Group("/pomodoro")
			{
				pomodoro.POST("/start", c.pomodoro.Start)
				pomodoro.POST("/:id/complete", c.pomodoro.Complete)
			}

			timer.GET("/analytics", c.analytics.GetAnalytics)
			timer.GET("/analytics/focus", c.analytics.GetFocusAnalytics)
			timer.GET("/analytics/estimation-accuracy", c.estimate.AccuracyReport)
			timer.GET("/patterns", c.analytics.GetPatterns)
			timer.GET("/statistics/:type", c.analytics.GetStatistics)

			estimates := timer.Group("/estimates")
			{
				estimates.GET("", c.estimate.List)
				estimates.POST("", c.estimate.Create)
				estimates.POST("/:id/actual", c.estimate.RecordActual)
			}
		}

		authGroup.GET("/documents/:id/completion-estimate", c.estimate.CompletionEstimate)
	}
}
