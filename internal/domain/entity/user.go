// Package entity contains the user aggregate. All fields are unexported; state
// changes go through the mutator methods so the aggregate's invariants hold at
// every point in its lifecycle.
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
)

// User is the aggregate root for the user domain. Identity, creation timestamp
// and role are immutable after construction; everything else mutates only
// through methods.
type User struct {
	id           string
	name         string
	lastName     string
	email        valueobject.Email
	userName     string
	passwordHash string
	role         Role
	createdAt    time.Time
	isDeleted    bool

	// Session state. Both fields move together: UpdateRefreshToken overwrites
	// the pair, RevokeRefreshToken clears the secret and backdates the expiry.
	// A present secret with a past expiry means stale, not absent; callers
	// must check the expiry, not presence.
	refreshToken          string
	refreshTokenExpiresAt time.Time
}

// NewUser validates inputs and constructs a user with a fresh identity,
// a UTC creation timestamp and no session state.
func NewUser(name, lastName, email, userName, passwordHash string, role Role) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: last name is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("%w: username is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("%w: password hash is required", apperr.ErrInvalidArgument)
	}
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	return &User{
		id:           uuid.NewString(),
		name:         name,
		lastName:     lastName,
		email:        emailVO,
		userName:     userName,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    time.Now().UTC(),
		isDeleted:    false,
	}, nil
}

// Rehydrate restores a persisted user without re-running construction
// validation. Repository use only; stored rows may predate current rules.
func Rehydrate(id, name, lastName string, email valueobject.Email, userName, passwordHash string, role Role, createdAt time.Time, isDeleted bool, refreshToken string, refreshTokenExpiresAt time.Time) *User {
	return &User{
		id:                    id,
		name:                  name,
		lastName:              lastName,
		email:                 email,
		userName:              userName,
		passwordHash:          passwordHash,
		role:                  role,
		createdAt:             createdAt,
		isDeleted:             isDeleted,
		refreshToken:          refreshToken,
		refreshTokenExpiresAt: refreshTokenExpiresAt,
	}
}

func (u *User) ID() string               { return u.id }
func (u *User) Name() string             { return u.name }
func (u *User) LastName() string         { return u.lastName }
func (u *User) Email() valueobject.Email { return u.email }
func (u *User) UserName() string         { return u.userName }
func (u *User) PasswordHash() string     { return u.passwordHash }
func (u *User) Role() Role               { return u.role }
func (u *User) CreatedAt() time.Time     { return u.createdAt }
func (u *User) IsDeleted() bool          { return u.isDeleted }

func (u *User) RefreshToken() string             { return u.refreshToken }
func (u *User) RefreshTokenExpiresAt() time.Time { return u.refreshTokenExpiresAt }

// UpdateProfile replaces name, last name and username atomically; on failure
// nothing is applied. Username uniqueness is the caller's responsibility.
func (u *User) UpdateProfile(name, lastName, userName string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: last name is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(userName) == "" {
		return fmt.Errorf("%w: username is required", apperr.ErrInvalidArgument)
	}
	u.name = name
	u.lastName = lastName
	u.userName = userName
	return nil
}

func (u *User) ChangePassword(newHash string) error {
	if strings.TrimSpace(newHash) == "" {
		return fmt.Errorf("%w: password hash is required", apperr.ErrInvalidArgument)
	}
	u.passwordHash = newHash
	return nil
}

func (u *User) ChangeEmail(raw string) error {
	emailVO, err := valueobject.NewEmail(raw)
	if err != nil {
		return err
	}
	u.email = emailVO
	return nil
}

// UpdateRefreshToken overwrites the session state unconditionally. The token
// service guarantees a high-entropy secret; no shape validation here.
func (u *User) UpdateRefreshToken(token string, expiresAt time.Time) {
	u.refreshToken = token
	u.refreshTokenExpiresAt = expiresAt
}

// RevokeRefreshToken clears the secret and sets the expiry to now, so any
// in-flight comparison sees an expired token rather than an absent one.
func (u *User) RevokeRefreshToken() {
	u.refreshToken = ""
	u.refreshTokenExpiresAt = time.Now().UTC()
}

// SoftDelete is idempotent.
func (u *User) SoftDelete() {
	if u.isDeleted {
		return
	}
	u.isDeleted = true
}
