package router

import (
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/internal/api/handler"
    "github.com/d60-Lab/autopub/pkg/middleware"
)

// New 组装 gin 引擎与全部路由
func New(h *handler.Handler, cfg *config.Config) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)
    handler.RegisterValidators()

    r := gin.New()
    r.Use(gin.Recovery())
    if cfg.Sentry.DSN != "" {
        r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    }
    r.Use(gzip.Gzip(gzip.DefaultCompression))
    r.Use(otelgin.Middleware("autopub"))

    r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    api := r.Group("/api/v1")
    api.POST("/auth/login", h.Login)

    auth := middleware.JWTAuth(cfg.Auth.JWTSecret)

    jobs := api.Group("/jobs", auth)
    jobs.POST("/schedule-ready", h.ScheduleReady)
    jobs.POST("/publish-due", h.PublishDue)
    jobs.POST("/reschedule-all", h.RescheduleAll)
    jobs.POST("/process-drafted", h.ProcessDrafted)

    contents := api.Group("/contents", auth)
    contents.POST("", h.CreateContent)
    contents.PATCH("/:id/status", h.UpdateContentStatus)

    return r
}
