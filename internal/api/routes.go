package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cvforge/internal/api/middleware"
	"cvforge/internal/auth"
	"cvforge/internal/config"
	"cvforge/internal/storage"
)

// RegisterRoutes registers every API route. Paths are mounted without an
// /api prefix; the reverse proxy in front of the service adds one.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL(),
		cfg.API.CookieDomain,
	)
	documentHandler := NewDocumentHandler(db, asynqClient, storageClient, cfg.Documents.MaxPerUser)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.Origins())

	authMiddleware := middleware.AuthMiddleware(authService)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		documentGroup := v1.Group("/documents")
		documentGroup.Use(authMiddleware, passwordGate)
		{
			documentGroup.POST("", documentHandler.CreateDocument)
			documentGroup.GET("", documentHandler.ListDocuments)
			documentGroup.POST("/preview", documentHandler.PreviewDraft)
			documentGroup.GET("/:id", documentHandler.GetDocument)
			documentGroup.PUT("/:id", documentHandler.UpdateDocument)
			documentGroup.DELETE("/:id", documentHandler.DeleteDocument)
			documentGroup.GET("/:id/preview", documentHandler.PreviewDocument)
			documentGroup.GET("/:id/export", documentHandler.ExportDocument)
			documentGroup.POST("/:id/export-async", documentHandler.ExportDocumentAsync)
			documentGroup.GET("/:id/download-link", documentHandler.GetDownloadLink)
		}

		internalGroup := v1.Group("/internal")
		internalGroup.Use(middleware.InternalSecretMiddleware(cfg.Internal.Secret))
		{
			internalGroup.GET("/documents/:id/print", documentHandler.GetPrintDocument)
		}
	}
}
