package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cvrender/internal/api/middleware"
	"cvrender/internal/database"
	"cvrender/internal/i18n"
	"cvrender/internal/scan"
)

// Deps 汇总路由需要的外部依赖。
type Deps struct {
	Repo           *database.ResumeRepository
	Exporter       Exporter
	Queue          TaskEnqueuer
	Signer         URLSigner
	Scanner        scan.Scanner
	Auth           middleware.TokenValidator
	Redis          *redis.Client
	Limiter        *RateLimiter
	Logger         *slog.Logger
	InternalSecret string
	PublicBaseURL  string
	AllowedOrigins []string
}

// RegisterRoutes 注册打印页与 /v1 API 路由。
func RegisterRoutes(router *gin.Engine, deps Deps) {
	store := database.ExportStore{Repo: deps.Repo}
	renderHandler := NewRenderHandler(store)
	resumeHandler := NewResumeHandler(
		deps.Repo,
		deps.Exporter,
		deps.Queue,
		deps.Signer,
		deps.Scanner,
		deps.Limiter,
		deps.PublicBaseURL,
	)
	wsHandler := NewWsHandler(deps.Redis, deps.Auth, deps.Logger, deps.AllowedOrigins)
	authMiddleware := middleware.AuthMiddleware(deps.Auth)
	printAccess := middleware.PrintAccessMiddleware(deps.InternalSecret, deps.Auth)

	// 每个语言单独注册，避免根路径参数与 /v1 等静态路由冲突。
	for _, loc := range i18n.Locales() {
		router.GET("/"+string(loc)+"/print/:id", printAccess, renderHandler.OwnerPrint(loc))
	}
	router.GET("/print/share/:shareId", renderHandler.SharePrint)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)
		v1.GET("/templates", renderHandler.ListTemplates)
		v1.GET("/share/:shareId/pdf", resumeHandler.SharePDF)

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.GET("/:id/preview", renderHandler.Preview)
			resumeGroup.GET("/:id/thumbnail", renderHandler.Thumbnail)
			resumeGroup.GET("/:id/pdf", resumeHandler.ExportPDF)
			resumeGroup.POST("/:id/export", resumeHandler.EnqueueExport)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
			resumeGroup.GET("/:id/share", resumeHandler.GetShare)
			resumeGroup.PUT("/:id/share", resumeHandler.SetShare)
		}
	}
}
