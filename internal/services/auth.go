package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/normalization"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string) (*domain.User, *TokenPair, error)
	LoginUser(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	RefreshUser(ctx context.Context) (*TokenPair, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	GetRefreshTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      userrepo.UserRepo
	userTokenRepo userrepo.UserTokenRepo
	jwtSecret     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo userrepo.UserRepo,
	userTokenRepo userrepo.UserTokenRepo,
) (AuthService, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecret:     []byte(secret),
		accessTTL:     durationFromEnv("ACCESS_TOKEN_TTL_MIN", 15) * time.Minute,
		refreshTTL:    durationFromEnv("REFRESH_TOKEN_TTL_HOURS", 720) * time.Hour,
	}, nil
}

func durationFromEnv(key string, fallback int) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return time.Duration(v)
		}
	}
	return time.Duration(fallback)
}

func (s *authService) GetAccessTTL() time.Duration  { return s.accessTTL }
func (s *authService) GetRefreshTTL() time.Duration { return s.refreshTTL }

func (s *authService) RegisterUser(ctx context.Context, username, email, password string) (*domain.User, *TokenPair, error) {
	username = strings.TrimSpace(username)
	email = normalization.ParseInputString(email)
	if username == "" || email == "" || len(password) < 8 {
		return nil, nil, fmt.Errorf("%w: username, email and a password of at least 8 characters are required", pkgerrors.ErrInvalidArgument)
	}

	exists, err := s.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		s.log.Error("RegisterUser: email lookup failed", "error", err)
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("%w: email already registered", pkgerrors.ErrInvalidArgument)
	}
	taken, err := s.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		s.log.Error("RegisterUser: username lookup failed", "error", err)
		return nil, nil, fmt.Errorf("check username: %w", err)
	}
	if len(taken) > 0 {
		return nil, nil, fmt.Errorf("%w: username already taken", pkgerrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	var pair *TokenPair
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.Create(ctx, tx, []*domain.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		var tErr error
		pair, tErr = s.issueTokens(ctx, tx, user.ID)
		return tErr
	}); err != nil {
		s.log.Error("RegisterUser: registration failed", "error", err)
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	email = normalization.ParseInputString(email)
	users, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		s.log.Error("LoginUser: user lookup failed", "error", err)
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)
	}

	var pair *TokenPair
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tErr error
		pair, tErr = s.issueTokens(ctx, tx, user.ID)
		return tErr
	}); err != nil {
		s.log.Error("LoginUser: token issuance failed", "error", err, "user_id", user.ID)
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) RefreshUser(ctx context.Context) (*TokenPair, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", pkgerrors.ErrUnauthorized)
	}
	tokens, err := s.userTokenRepo.GetByRefreshTokens(ctx, nil, []string{rd.RefreshToken})
	if err != nil {
		s.log.Error("RefreshUser: token lookup failed", "error", err)
		return nil, fmt.Errorf("load token: %w", err)
	}
	if len(tokens) == 0 || tokens[0] == nil {
		return nil, fmt.Errorf("%w: unknown refresh token", pkgerrors.ErrUnauthorized)
	}
	stored := tokens[0]
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userTokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{stored.ID})
		return nil, fmt.Errorf("%w: refresh token expired", pkgerrors.ErrUnauthorized)
	}

	var pair *TokenPair
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{stored.ID}); err != nil {
			return fmt.Errorf("rotate token: %w", err)
		}
		var tErr error
		pair, tErr = s.issueTokens(ctx, tx, stored.UserID)
		return tErr
	}); err != nil {
		s.log.Error("RefreshUser: rotation failed", "error", err, "user_id", stored.UserID)
		return nil, err
	}
	return pair, nil
}

func (s *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return pkgerrors.ErrUnauthorized
	}
	if err := s.userTokenRepo.FullDeleteByUserIDs(ctx, nil, []uuid.UUID{rd.UserID}); err != nil {
		s.log.Error("LogoutUser: token deletion failed", "error", err, "user_id", rd.UserID)
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}

// SetContextFromToken validates an access token and attaches the caller's
// identity to the context for downstream services.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("%w: missing access token", pkgerrors.ErrUnauthorized)
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid access token", pkgerrors.ErrUnauthorized)
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return ctx, fmt.Errorf("%w: malformed token claims", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return ctx, fmt.Errorf("%w: malformed token claims", pkgerrors.ErrUnauthorized)
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.accessTTL)
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	record := &domain.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.refreshTTL),
	}
	if _, err := s.userTokenRepo.Create(ctx, tx, []*domain.UserToken{record}); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
