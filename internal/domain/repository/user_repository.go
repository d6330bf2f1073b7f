package repository

import (
	"context"

	"github.com/oksasatya/users-backend/internal/domain/entity"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
)

// UserRepository defines the persistence contract for the user aggregate.
// Implementations map apperr.ErrNotFound on misses and apperr.ErrConflict on
// unique-constraint violations; everything else surfaces unchanged.
type UserRepository interface {
	GetAll(ctx context.Context) ([]*entity.User, error)
	GetDeleted(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUserName(ctx context.Context, userName string) (*entity.User, error)
	GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	SoftDelete(ctx context.Context, id string) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
}
