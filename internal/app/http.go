package app

import (
	moonhttp "github.com/moonquill/moonquill-backend/internal/http"
	httpH "github.com/moonquill/moonquill-backend/internal/http/handlers"
	httpMW "github.com/moonquill/moonquill-backend/internal/http/middleware"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Feed     *httpH.FeedHandler
	Novel    *httpH.NovelHandler
	Chapter  *httpH.ChapterHandler
	Progress *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, cfg Config, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(svcs.Auth),
		User:     httpH.NewUserHandler(svcs.User),
		Feed:     httpH.NewFeedHandler(svcs.Feed),
		Novel:    httpH.NewNovelHandler(svcs.Novel, cfg.MaxCoverUploadMB),
		Chapter:  httpH.NewChapterHandler(svcs.Chapter),
		Progress: httpH.NewProgressHandler(svcs.Progress),
	}
}

func wireMiddleware(log *logger.Logger, svcs Services) *httpMW.AuthMiddleware {
	log.Info("Wiring middleware...")
	return httpMW.NewAuthMiddleware(log, svcs.Auth)
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, authMW *httpMW.AuthMiddleware) *moonhttp.Server {
	log.Info("Wiring HTTP server...")
	return moonhttp.NewServer(moonhttp.RouterConfig{
		Log:             log,
		AuthMiddleware:  authMW,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		FeedHandler:     handlers.Feed,
		NovelHandler:    handlers.Novel,
		ChapterHandler:  handlers.Chapter,
		ProgressHandler: handlers.Progress,
		ServiceName:     cfg.ServiceName,
		MediaBaseURL:    cfg.MediaBaseURL,
		MediaBaseDir:    cfg.MediaBaseDir,
	})
}
