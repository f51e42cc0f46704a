package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithRole(role domain.Role, guard gin.HandlerFunc) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)

	if role != "" {
		r.Use(func(c *gin.Context) {
			SetActor(c, &domain.Actor{ID: "u1", Role: role})
			c.Next()
		})
	}
	r.Use(guard)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAdmin_Allowed(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithRole(domain.RoleAdmin, RequireAdmin()))
}

func TestRequireAdmin_Denied(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serveWithRole(domain.RoleEditor, RequireAdmin()))
}

func TestRequireRole_NoActor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithRole("", RequireRole(domain.RoleWriter)))
}

func TestRequireRole_Hierarchy(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithRole(domain.RoleEditor, RequireRole(domain.RoleWriter)))
	assert.Equal(t, http.StatusForbidden, serveWithRole(domain.RoleUser, RequireRole(domain.RoleWriter)))
}

func TestJWTAuth_HeaderAndCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := jwt.NewManager("secret", 0, 0)
	token, err := mgr.GenerateAccessToken("u42", "writer", "w@example.com", "كاتب")
	require.NoError(t, err)

	r := gin.New()
	r.Use(JWTAuth(mgr))
	r.GET("/me", func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u42"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"writer"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/me", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_NoToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuth(jwt.NewManager("secret", 0, 0)))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anon": GetActor(c) == nil})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"anon":true`)
}
