package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("Ana", "Silva", "ana@example.com", "anasilva", "digest", RoleUser)
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)

	_, err := uuid.Parse(u.ID())
	assert.NoError(t, err, "id should be a uuid")
	assert.Equal(t, "Ana", u.Name())
	assert.Equal(t, "Silva", u.LastName())
	assert.Equal(t, "ana@example.com", u.Email().String())
	assert.Equal(t, "anasilva", u.UserName())
	assert.Equal(t, "digest", u.PasswordHash())
	assert.Equal(t, RoleUser, u.Role())
	assert.False(t, u.IsDeleted())
	assert.Empty(t, u.RefreshToken())
	assert.True(t, u.RefreshTokenExpiresAt().IsZero())
	assert.WithinDuration(t, time.Now().UTC(), u.CreatedAt(), time.Second)
}

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name string
		call func() (*User, error)
	}{
		{"blank name", func() (*User, error) {
			return NewUser("", "Silva", "ana@example.com", "anasilva", "digest", RoleUser)
		}},
		{"blank last name", func() (*User, error) {
			return NewUser("Ana", "  ", "ana@example.com", "anasilva", "digest", RoleUser)
		}},
		{"blank username", func() (*User, error) {
			return NewUser("Ana", "Silva", "ana@example.com", "", "digest", RoleUser)
		}},
		{"blank password hash", func() (*User, error) {
			return NewUser("Ana", "Silva", "ana@example.com", "anasilva", "", RoleUser)
		}},
		{"invalid email", func() (*User, error) {
			return NewUser("Ana", "Silva", "not-an-email", "anasilva", "digest", RoleUser)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := tc.call()
			require.Error(t, err)
			assert.Nil(t, u)
			assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	u := newTestUser(t)

	require.NoError(t, u.UpdateProfile("Anna", "Souza", "annasouza"))
	assert.Equal(t, "Anna", u.Name())
	assert.Equal(t, "Souza", u.LastName())
	assert.Equal(t, "annasouza", u.UserName())
}

func TestUpdateProfileAtomic(t *testing.T) {
	u := newTestUser(t)

	// Blank username fails the whole update; earlier fields must not stick.
	err := u.UpdateProfile("Anna", "Souza", " ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
	assert.Equal(t, "Ana", u.Name())
	assert.Equal(t, "Silva", u.LastName())
	assert.Equal(t, "anasilva", u.UserName())
}

func TestChangePassword(t *testing.T) {
	u := newTestUser(t)

	require.NoError(t, u.ChangePassword("newdigest"))
	assert.Equal(t, "newdigest", u.PasswordHash())

	err := u.ChangePassword("")
	require.Error(t, err)
	assert.Equal(t, "newdigest", u.PasswordHash())
}

func TestChangeEmail(t *testing.T) {
	u := newTestUser(t)

	require.NoError(t, u.ChangeEmail("anna@example.org"))
	assert.Equal(t, "anna@example.org", u.Email().String())

	err := u.ChangeEmail("nope")
	require.Error(t, err)
	assert.Equal(t, "anna@example.org", u.Email().String())
}

func TestUpdateRefreshTokenOverwrites(t *testing.T) {
	u := newTestUser(t)

	first := time.Now().UTC().Add(time.Hour)
	u.UpdateRefreshToken("token-1", first)
	assert.Equal(t, "token-1", u.RefreshToken())
	assert.Equal(t, first, u.RefreshTokenExpiresAt())

	second := time.Now().UTC().Add(2 * time.Hour)
	u.UpdateRefreshToken("token-2", second)
	assert.Equal(t, "token-2", u.RefreshToken())
	assert.Equal(t, second, u.RefreshTokenExpiresAt())
}

func TestRevokeRefreshToken(t *testing.T) {
	u := newTestUser(t)
	u.UpdateRefreshToken("token-1", time.Now().UTC().Add(time.Hour))

	u.RevokeRefreshToken()
	assert.Empty(t, u.RefreshToken())
	assert.False(t, u.RefreshTokenExpiresAt().After(time.Now()), "revoked expiry must not be in the future")
}

func TestSoftDeleteIdempotent(t *testing.T) {
	u := newTestUser(t)

	u.SoftDelete()
	assert.True(t, u.IsDeleted())
	u.SoftDelete()
	assert.True(t, u.IsDeleted())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("User")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("root")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}
