package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
	"github.com/moonquill/moonquill-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

// AttachRefreshToken stores the refresh token from the request body or cookie
// on the context so the auth service can rotate it. Runs only on the refresh
// route.
func (am *AuthMiddleware) AttachRefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		refresh := ""
		if err := c.ShouldBindBodyWithJSON(&body); err == nil {
			refresh = strings.TrimSpace(body.RefreshToken)
		}
		if refresh == "" {
			if cookie, err := c.Cookie("refresh_token"); err == nil {
				refresh = cookie
			}
		}
		if refresh != "" {
			rd := requestdata.GetRequestData(c.Request.Context())
			if rd == nil {
				rd = &requestdata.RequestData{}
			}
			rd.RefreshToken = refresh
			c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	return ""
}
