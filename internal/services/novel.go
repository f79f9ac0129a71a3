package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	novelrepo "github.com/moonquill/moonquill-backend/internal/data/repos/novel"
	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/domain"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

type NovelService interface {
	List(ctx context.Context, limit, offset int) ([]*domain.Novel, error)
	GetByID(ctx context.Context, novelID uuid.UUID) (*domain.Novel, error)
	Create(ctx context.Context, title, synopsis string, genres datatypes.JSON, cover []byte) (*domain.Novel, error)
}

type novelService struct {
	db           *gorm.DB
	log          *logger.Logger
	novelRepo    novelrepo.NovelRepo
	userRepo     userrepo.UserRepo
	coverService CoverService
}

func NewNovelService(
	db *gorm.DB,
	baseLog *logger.Logger,
	novelRepo novelrepo.NovelRepo,
	userRepo userrepo.UserRepo,
	coverService CoverService,
) NovelService {
	return &novelService{
		db:           db,
		log:          baseLog.With("service", "NovelService"),
		novelRepo:    novelRepo,
		userRepo:     userRepo,
		coverService: coverService,
	}
}

func (s *novelService) List(ctx context.Context, limit, offset int) ([]*domain.Novel, error) {
	novels, err := s.novelRepo.List(ctx, nil, limit, offset)
	if err != nil {
		s.log.Error("List: load novels failed", "error", err)
		return nil, fmt.Errorf("load novels: %w", err)
	}
	return novels, nil
}

func (s *novelService) GetByID(ctx context.Context, novelID uuid.UUID) (*domain.Novel, error) {
	if novelID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing novel id", pkgerrors.ErrInvalidArgument)
	}
	novels, err := s.novelRepo.GetByIDs(ctx, nil, []uuid.UUID{novelID})
	if err != nil {
		s.log.Error("GetByID: load novel failed", "error", err, "novel_id", novelID)
		return nil, fmt.Errorf("load novel: %w", err)
	}
	if len(novels) == 0 || novels[0] == nil {
		return nil, fmt.Errorf("%w: novel", pkgerrors.ErrNotFound)
	}
	return novels[0], nil
}

func (s *novelService) Create(ctx context.Context, title, synopsis string, genres datatypes.JSON, cover []byte) (*domain.Novel, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidArgument)
	}

	novel := &domain.Novel{
		ID:       uuid.New(),
		Title:    title,
		AuthorID: rd.UserID,
		Synopsis: strings.TrimSpace(synopsis),
		Genres:   genres,
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.coverService != nil {
			var cErr error
			if len(cover) > 0 {
				cErr = s.coverService.CreateCoverFromImage(ctx, tx, novel, cover)
			} else {
				cErr = s.coverService.CreateDefaultCover(ctx, tx, novel)
			}
			if cErr != nil {
				return fmt.Errorf("prepare cover: %w", cErr)
			}
		}
		if _, err := s.novelRepo.Create(ctx, tx, []*domain.Novel{novel}); err != nil {
			return fmt.Errorf("create novel: %w", err)
		}
		return nil
	}); err != nil {
		s.log.Error("Create: novel creation failed", "error", err, "user_id", rd.UserID)
		return nil, err
	}
	return novel, nil
}
