package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/moonquill/moonquill-backend/internal/http/handlers"
	httpMW "github.com/moonquill/moonquill-backend/internal/http/middleware"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	FeedHandler     *httpH.FeedHandler
	NovelHandler    *httpH.NovelHandler
	ChapterHandler  *httpH.ChapterHandler
	ProgressHandler *httpH.ProgressHandler

	ServiceName string

	// Covers written through localmedia are served from MediaBaseDir at
	// MediaBaseURL so stored cover_image paths resolve.
	MediaBaseURL string
	MediaBaseDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Media (cover images)
	if cfg.MediaBaseURL != "" && cfg.MediaBaseDir != "" {
		r.Static(cfg.MediaBaseURL, cfg.MediaBaseDir)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			if cfg.AuthMiddleware != nil {
				api.POST("/refresh", cfg.AuthMiddleware.AttachRefreshToken(), cfg.AuthHandler.Refresh)
			}
		}

		// Catalog (public)
		if cfg.FeedHandler != nil {
			api.GET("/novels/latest-updates", cfg.FeedHandler.LatestUpdates)
		}
		if cfg.NovelHandler != nil {
			api.GET("/novels", cfg.NovelHandler.List)
			api.GET("/novels/:id", cfg.NovelHandler.Get)
		}
		if cfg.ChapterHandler != nil {
			api.GET("/novels/:id/chapters", cfg.ChapterHandler.ListForNovel)
			api.GET("/chapters/:id", cfg.ChapterHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Reading progress
		if cfg.ProgressHandler != nil {
			protected.GET("/me/reading-progress", cfg.ProgressHandler.List)
			protected.GET("/me/reading-progress/latest", cfg.ProgressHandler.Latest)
			protected.PUT("/me/reading-progress", cfg.ProgressHandler.Record)
		}

		// Authoring
		if cfg.NovelHandler != nil {
			protected.POST("/novels", cfg.NovelHandler.Create)
		}
		if cfg.ChapterHandler != nil {
			protected.POST("/novels/:id/chapters", cfg.ChapterHandler.Create)
			protected.POST("/chapters/:id/publish", cfg.ChapterHandler.Publish)
		}
	}

	return r
}
