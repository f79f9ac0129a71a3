package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, err := NewAuthService(nil, testLogger(t), &fakeUserRepo{}, &fakeUserTokenRepo{})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSetContextFromTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)
	userID := uuid.New()
	token := signTestToken(t, "test-secret", jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		t.Fatalf("expected user %s on context, got %+v", userID, rd)
	}
	if rd.TokenString != token {
		t.Error("token string not carried on context")
	}
}

func TestSetContextFromTokenRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService(t)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": signTestToken(t, "other-secret", jwt.MapClaims{"user_id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":      signTestToken(t, "test-secret", jwt.MapClaims{"user_id": uuid.NewString(), "exp": time.Now().Add(-time.Hour).Unix()}),
		"bad user id":  signTestToken(t, "test-secret", jwt.MapClaims{"user_id": "abc", "exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, token := range cases {
		if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := NewAuthService(nil, testLogger(t), &fakeUserRepo{}, &fakeUserTokenRepo{}); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}
