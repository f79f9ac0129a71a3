// Command seed loads a YAML fixture file into the database. Useful for local
// development and demo environments.
//
//	go run ./cmd/seed -file fixtures/dev.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	chapterrepo "github.com/moonquill/moonquill-backend/internal/data/repos/chapter"
	novelrepo "github.com/moonquill/moonquill-backend/internal/data/repos/novel"
	progressrepo "github.com/moonquill/moonquill-backend/internal/data/repos/progress"
	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/db"
	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type fixture struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Bio      string `yaml:"bio"`
	} `yaml:"users"`
	Novels []struct {
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		Synopsis string `yaml:"synopsis"`
		Chapters []struct {
			Number    int    `yaml:"number"`
			Title     string `yaml:"title"`
			Body      string `yaml:"body"`
			Published bool   `yaml:"published"`
		} `yaml:"chapters"`
	} `yaml:"novels"`
	Progress []struct {
		User    string `yaml:"user"`
		Novel   string `yaml:"novel"`
		Chapter int    `yaml:"chapter"`
		Percent int    `yaml:"percent"`
	} `yaml:"progress"`
}

func main() {
	file := flag.String("file", "fixtures/dev.yaml", "fixture file to load")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*file, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "file", *file)
}

func run(file string, log *logger.Logger) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	userRepo := userrepo.NewUserRepo(theDB, log)
	novelRepo := novelrepo.NewNovelRepo(theDB, log)
	chapterRepo := chapterrepo.NewChapterRepo(theDB, log)
	progressRepo := progressrepo.NewProgressRepo(theDB, log)

	ctx := context.Background()

	usersByName := make(map[string]*domain.User, len(fx.Users))
	for _, u := range fx.Users {
		existing, err := userRepo.GetByUsernames(ctx, nil, []string{u.Username})
		if err != nil {
			return fmt.Errorf("lookup user %q: %w", u.Username, err)
		}
		if len(existing) > 0 {
			usersByName[u.Username] = existing[0]
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", u.Username, err)
		}
		user := &domain.User{
			ID:       uuid.New(),
			Username: u.Username,
			Email:    u.Email,
			Password: string(hashed),
			Bio:      u.Bio,
		}
		if _, err := userRepo.Create(ctx, nil, []*domain.User{user}); err != nil {
			return fmt.Errorf("create user %q: %w", u.Username, err)
		}
		usersByName[u.Username] = user
		log.Info("seeded user", "username", u.Username)
	}

	type novelKey struct {
		title string
	}
	novelsByTitle := make(map[novelKey]*domain.Novel, len(fx.Novels))
	chaptersByNovel := make(map[novelKey]map[int]*domain.Chapter)
	for _, n := range fx.Novels {
		author, ok := usersByName[n.Author]
		if !ok {
			return fmt.Errorf("novel %q references unknown author %q", n.Title, n.Author)
		}
		novel := &domain.Novel{
			ID:       uuid.New(),
			Title:    n.Title,
			AuthorID: author.ID,
			Synopsis: n.Synopsis,
		}
		if _, err := novelRepo.Create(ctx, nil, []*domain.Novel{novel}); err != nil {
			return fmt.Errorf("create novel %q: %w", n.Title, err)
		}
		key := novelKey{title: n.Title}
		novelsByTitle[key] = novel
		chaptersByNovel[key] = make(map[int]*domain.Chapter, len(n.Chapters))

		for _, c := range n.Chapters {
			chapter := &domain.Chapter{
				ID:            uuid.New(),
				NovelID:       novel.ID,
				ChapterNumber: c.Number,
				Title:         c.Title,
				Body:          c.Body,
				Status:        domain.ChapterStatusDraft,
			}
			if _, err := chapterRepo.Create(ctx, nil, []*domain.Chapter{chapter}); err != nil {
				return fmt.Errorf("create chapter %d of %q: %w", c.Number, n.Title, err)
			}
			if c.Published {
				if err := chapterRepo.Publish(ctx, nil, chapter.ID, time.Now().UTC()); err != nil {
					return fmt.Errorf("publish chapter %d of %q: %w", c.Number, n.Title, err)
				}
			}
			chaptersByNovel[key][c.Number] = chapter
		}
		log.Info("seeded novel", "title", n.Title, "chapters", len(n.Chapters))
	}

	for _, p := range fx.Progress {
		user, ok := usersByName[p.User]
		if !ok {
			return fmt.Errorf("progress references unknown user %q", p.User)
		}
		key := novelKey{title: p.Novel}
		novel, ok := novelsByTitle[key]
		if !ok {
			return fmt.Errorf("progress references unknown novel %q", p.Novel)
		}
		chapter, ok := chaptersByNovel[key][p.Chapter]
		if !ok {
			return fmt.Errorf("progress references unknown chapter %d of %q", p.Chapter, p.Novel)
		}
		row := &domain.ReadingProgress{
			UserID:    user.ID,
			NovelID:   novel.ID,
			ChapterID: chapter.ID,
			Percent:   p.Percent,
		}
		if err := progressRepo.Upsert(ctx, nil, row); err != nil {
			return fmt.Errorf("seed progress for %q on %q: %w", p.User, p.Novel, err)
		}
	}

	return nil
}
