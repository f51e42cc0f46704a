package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/jwt"
)

// Cookie names for the session tokens
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
	ctxName   = "name"
	ctxEmail  = "email"
)

// JWTAuth requires a valid access token from the Authorization header or the accessToken cookie
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, common.T(c, "error.unauthorized"), nil)
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			key := "auth.token_invalid"
			if errors.Is(err, jwt.ErrExpiredToken) {
				key = "auth.token_expired"
			}
			common.ErrorResponse(c, http.StatusUnauthorized, common.T(c, key), nil)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth populates the actor when a valid token is present and never rejects
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if claims, err := jwtManager.VerifyToken(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, domain.Role(claims.Role))
	c.Set(ctxName, claims.Name)
	c.Set(ctxEmail, claims.Email)
}

// SetActor stores an actor in the context. Used by tests and internal callers.
func SetActor(c *gin.Context, actor *domain.Actor) {
	c.Set(ctxUserID, actor.ID)
	c.Set(ctxRole, actor.Role)
	c.Set(ctxName, actor.Name)
	c.Set(ctxEmail, actor.Email)
}

// GetActor returns the authenticated caller, or nil
func GetActor(c *gin.Context) *domain.Actor {
	userID := GetUserID(c)
	if userID == "" {
		return nil
	}
	return &domain.Actor{
		ID:    userID,
		Role:  GetUserRole(c),
		Name:  c.GetString(ctxName),
		Email: c.GetString(ctxEmail),
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserRole extracts the role from context
func GetUserRole(c *gin.Context) domain.Role {
	v, exists := c.Get(ctxRole)
	if !exists {
		return ""
	}
	if role, ok := v.(domain.Role); ok {
		return role
	}
	return ""
}
