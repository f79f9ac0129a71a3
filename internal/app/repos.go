package app

import (
	"gorm.io/gorm"

	chapterrepo "github.com/moonquill/moonquill-backend/internal/data/repos/chapter"
	novelrepo "github.com/moonquill/moonquill-backend/internal/data/repos/novel"
	progressrepo "github.com/moonquill/moonquill-backend/internal/data/repos/progress"
	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo
	Novel     novelrepo.NovelRepo
	Chapter   chapterrepo.ChapterRepo
	Progress  progressrepo.ProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),
		Novel:     novelrepo.NewNovelRepo(db, log),
		Chapter:   chapterrepo.NewChapterRepo(db, log),
		Progress:  progressrepo.NewProgressRepo(db, log),
	}
}
