package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/platform/localmedia"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Cover    services.CoverService
	Novel    services.NovelService
	Chapter  services.ChapterService
	Feed     services.FeedService
	Progress services.ProgressService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(db, log, repos.User, repos.UserToken)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	media, err := localmedia.NewStore(log, cfg.MediaBaseDir, cfg.MediaBaseURL)
	if err != nil {
		return Services{}, fmt.Errorf("init media store: %w", err)
	}
	coverService, err := services.NewCoverService(db, log, media)
	if err != nil {
		return Services{}, fmt.Errorf("init cover service: %w", err)
	}

	return Services{
		Auth:     authService,
		User:     services.NewUserService(log, repos.User),
		Cover:    coverService,
		Novel:    services.NewNovelService(db, log, repos.Novel, repos.User, coverService),
		Chapter:  services.NewChapterService(db, log, repos.Chapter, repos.Novel),
		Feed:     services.NewFeedService(db, log, repos.Chapter),
		Progress: services.NewProgressService(db, log, repos.Progress, repos.Novel, repos.Chapter, repos.User),
	}, nil
}
