package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/config"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/jwt"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service    service.AuthService
	jwtManager *jwt.Manager
	server     config.ServerConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, jwtManager *jwt.Manager, server config.ServerConfig) *AuthHandler {
	return &AuthHandler{
		service:    service,
		jwtManager: jwtManager,
		server:     server,
	}
}

// Login handles POST /api/auth/login
// Tokens are returned in the body and also set as httpOnly cookies.
// @Summary      تسجيل الدخول
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LoginRequest  true  "بيانات الدخول"
// @Success      200   {object}  common.Response{data=domain.LoginResponse}
// @Failure      401   {object}  common.Response
// @Failure      403   {object}  common.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setTokenCookies(c, &resp.TokenPair)
	common.Success(c, resp)
}

// Refresh handles POST /api/auth/refresh
// @Summary      تجديد رمز الدخول
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RefreshRequest  false  "رمز التجديد عند غياب الكوكي"
// @Success      200   {object}  common.Response{data=domain.TokenPair}
// @Failure      401   {object}  common.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req domain.RefreshRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				common.BadRequest(c, err)
				return
			}
		}
		token = req.RefreshToken
	}
	if token == "" {
		common.HandleError(c, common.ErrInvalidToken)
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	common.Success(c, pair)
}

// Logout handles POST /api/auth/logout
// @Summary      تسجيل الخروج
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearTokenCookies(c)
	common.Message(c, "auth.logout_success")
}

// Me handles GET /api/auth/me
// @Summary      المستخدم الحالي
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Response{data=domain.User}
// @Failure      401  {object}  common.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, user)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken,
		int(h.jwtManager.AccessTTL().Seconds()), "/", h.server.CookieDomain, h.server.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken,
		int(h.jwtManager.RefreshTTL().Seconds()), "/api/auth", h.server.CookieDomain, h.server.CookieSecure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.server.CookieDomain, h.server.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/api/auth", h.server.CookieDomain, h.server.CookieSecure, true)
}
