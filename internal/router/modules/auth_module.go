package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/container"
	handlers "github.com/oksasatya/users-backend/internal/interface/http"
	"github.com/oksasatya/users-backend/internal/interface/middleware"
)

// AuthModule wires the credential endpoints.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/refresh
// Protected: POST /api/auth/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  *application.TokenService
}

func NewAuthModule(h *handlers.AuthHandler, tokens *application.TokenService) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
