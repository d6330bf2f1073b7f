package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/users-backend/config"
	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	pginfra "github.com/oksasatya/users-backend/internal/infrastructure/postgres"
	"github.com/oksasatya/users-backend/pkg/helpers"
)

// Seeds an initial admin account so a fresh deployment has a way in.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	const (
		email    = "admin@users-backend.local"
		password = "ChangeMe123!"
		userName = "admin"
	)

	if existing, err := repo.GetByUserName(ctx, userName); err == nil && existing != nil {
		fmt.Printf("admin already seeded: id=%s email=%s\n", existing.ID(), existing.Email().String())
		return
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	u, err := entity.NewUser("Admin", "Root", email, userName, helpers.HashPassword(password), entity.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to construct admin user: %v", err)
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s username=%s password=%s\n", u.ID(), email, userName, password)
}
