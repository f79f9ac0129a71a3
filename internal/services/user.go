package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/domain"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

type UserService interface {
	GetMe(ctx context.Context) (*domain.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo userrepo.UserRepo
}

func NewUserService(baseLog *logger.Logger, userRepo userrepo.UserRepo) UserService {
	return &userService{
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) GetMe(ctx context.Context) (*domain.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		s.log.Error("GetMe: load user failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("%w: user", pkgerrors.ErrNotFound)
	}
	return users[0], nil
}
