package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/users-backend/config"
	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	"github.com/oksasatya/users-backend/internal/interface/middleware"
	"github.com/oksasatya/users-backend/pkg/helpers"
	"github.com/oksasatya/users-backend/pkg/response"
	"github.com/oksasatya/users-backend/pkg/validation"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Logger  *logrus.Logger
	Cfg     *config.Config
	Cookies *helpers.CookieManager
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Auth:    auth,
		Logger:  logger,
		Cfg:     cfg,
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
}

type tokenPairJSON struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role := entity.RoleUser
	if req.Role != "" {
		parsed, err := entity.ParseRole(req.Role)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, messageFor(err), nil)
			return
		}
		role = parsed
	}
	pair, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, tokenPairJSON(pair), "registration successful", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, tokenPairJSON(pair), "login successful", nil)
}

// Refresh POST /api/auth/refresh
// The refresh token may come from the body or from the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	refresh := req.RefreshToken
	if refresh == "" {
		refresh, _ = c.Cookie("refresh_token")
	}
	if refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), req.AccessToken, refresh)
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, tokenPairJSON(pair), "tokens refreshed", nil)
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Auth.Logout(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("logout failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair application.TokenPair) {
	now := time.Now()
	h.Cookies.SetPair(c,
		pair.AccessToken, now.Add(h.Cfg.AccessTokenTTL()),
		pair.RefreshToken, now.AddDate(0, 0, h.Cfg.RefreshTokenTTLDays),
	)
}
