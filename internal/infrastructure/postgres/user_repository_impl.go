package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	"github.com/oksasatya/users-backend/internal/domain/repository"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
)

const uniqueViolation = "23505"

const userColumns = `id, name, last_name, email, user_name, password_hash, role, created_at, is_deleted, refresh_token, refresh_token_expires_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type userRow struct {
	ID                    string
	Name                  string
	LastName              string
	Email                 string
	UserName              string
	PasswordHash          string
	Role                  string
	CreatedAt             time.Time
	IsDeleted             bool
	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var r userRow
	if err := row.Scan(&r.ID, &r.Name, &r.LastName, &r.Email, &r.UserName, &r.PasswordHash,
		&r.Role, &r.CreatedAt, &r.IsDeleted, &r.RefreshToken, &r.RefreshTokenExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity()
}

func (r userRow) toEntity() (*entity.User, error) {
	email, err := valueobject.NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	var refresh string
	if r.RefreshToken != nil {
		refresh = *r.RefreshToken
	}
	var refreshExp time.Time
	if r.RefreshTokenExpiresAt != nil {
		refreshExp = *r.RefreshTokenExpiresAt
	}
	return entity.Rehydrate(r.ID, r.Name, r.LastName, email, r.UserName, r.PasswordHash,
		role, r.CreatedAt, r.IsDeleted, refresh, refreshExp), nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, false)
}

func (r *UserRepository) GetDeleted(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, true)
}

func (r *UserRepository) list(ctx context.Context, deleted bool) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE is_deleted = $1
		ORDER BY created_at
	`, deleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var row userRow
		if err := rows.Scan(&row.ID, &row.Name, &row.LastName, &row.Email, &row.UserName, &row.PasswordHash,
			&row.Role, &row.CreatedAt, &row.IsDeleted, &row.RefreshToken, &row.RefreshTokenExpiresAt); err != nil {
			return nil, err
		}
		u, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_name = $1
	`, userName))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email.String()))
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID(), u.Name(), u.LastName(), u.Email().String(), u.UserName(), u.PasswordHash(),
		u.Role().String(), u.CreatedAt(), u.IsDeleted(), nullable(u.RefreshToken()), nullableTime(u.RefreshTokenExpiresAt()))
	return mapPgError(err)
}

// Update has full-replace semantics for the target id.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, last_name = $2, email = $3, user_name = $4, password_hash = $5,
		    is_deleted = $6, refresh_token = $7, refresh_token_expires_at = $8
		WHERE id = $9
	`, u.Name(), u.LastName(), u.Email().String(), u.UserName(), u.PasswordHash(),
		u.IsDeleted(), nullable(u.RefreshToken()), nullableTime(u.RefreshTokenExpiresAt()), u.ID())
	if err != nil {
		return mapPgError(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// SoftDelete flips the flag and returns the row; calling it again is a no-op
// that still succeeds.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_deleted = true
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id))
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		DELETE FROM users
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id))
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.ErrConflict
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
