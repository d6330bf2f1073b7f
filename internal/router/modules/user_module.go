package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/container"
	handlers "github.com/oksasatya/users-backend/internal/interface/http"
	"github.com/oksasatya/users-backend/internal/interface/middleware"
)

// UserModule wires the user CRUD surface.
// Authenticated: GET /api/users/me, GET/PUT /api/users/:id (self or admin)
// Admin only: list, list-deleted, lookup by username/email, search, create,
// soft delete, hard delete.

type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *application.TokenService
}

func NewUserModule(h *handlers.UserHandler, tokens *application.TokenService) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/me", m.Handler.Me)
		auth.GET("/users/:id", m.Handler.GetByID)
		auth.PUT("/users/:id", m.Handler.Update)
	}

	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/deleted", m.Handler.ListDeleted)
		admin.GET("/users/username/:username", m.Handler.GetByUserName)
		admin.GET("/users/email/:email", m.Handler.GetByEmail)
		admin.GET("/users/search", m.Handler.Search)
		admin.POST("/users", m.Handler.Create)
		admin.DELETE("/users/:id", m.Handler.SoftDelete)
		admin.DELETE("/users/:id/hard", m.Handler.HardDelete)
	}
}
