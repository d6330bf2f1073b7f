package router

import (
	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/container"
	pginfra "github.com/oksasatya/users-backend/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/users-backend/internal/interface/http"
	"github.com/oksasatya/users-backend/internal/router/modules"
)

// InitModules builds the application services and registers all feature
// modules with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	tokens := container.GetTokens()

	repo := pginfra.NewUserRepository(container.GetPGPool())

	authSvc := application.NewAuthService(repo, tokens, logger, container.GetRabbitPub())
	userSvc := application.NewUserService(repo, logger, container.GetES(), cfg.ESUsersIndex)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, tokens))
	r.Add(modules.NewUserModule(userHandler, tokens))
}
