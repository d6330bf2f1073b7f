package application

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
)

func testTokenConfig(accessTTL time.Duration) TokenConfig {
	return TokenConfig{
		Secret:         []byte("test-signing-key-test-signing-key"),
		Issuer:         "users-backend",
		Audience:       "users-backend-clients",
		AccessTTL:      accessTTL,
		RefreshTTLDays: 7,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))
	userID := uuid.NewString()

	signed, exp, err := svc.GenerateAccessToken(userID, "ana@example.com", entity.RoleUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 2*time.Second)

	claims, err := svc.ParseAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "User", claims.Role)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

func TestAccessTokenUniqueJTI(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))
	userID := uuid.NewString()

	a, _, err := svc.GenerateAccessToken(userID, "ana@example.com", entity.RoleUser)
	require.NoError(t, err)
	b, _, err := svc.GenerateAccessToken(userID, "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	ca, err := svc.ParseAccessToken(a)
	require.NoError(t, err)
	cb, err := svc.ParseAccessToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID, "two tokens minted back to back must carry distinct jti")
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService(testTokenConfig(-time.Minute))
	signed, _, err := svc.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
}

func TestParseAccessTokenRejectsBadSignature(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))
	other := NewTokenService(TokenConfig{
		Secret:         []byte("a-completely-different-signing-key"),
		Issuer:         "users-backend",
		Audience:       "users-backend-clients",
		AccessTTL:      15 * time.Minute,
		RefreshTTLDays: 7,
	})

	signed, _, err := other.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
}

func TestParseExpiredTokenAcceptsExpired(t *testing.T) {
	expired := NewTokenService(testTokenConfig(-time.Minute))
	userID := uuid.NewString()
	signed, _, err := expired.GenerateAccessToken(userID, "ana@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	claims, err := expired.ParseExpiredToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "ana@example.com", claims.Subject)
}

func TestParseExpiredTokenRejectsStillValid(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))
	signed, _, err := svc.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ParseExpiredToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
	assert.Contains(t, err.Error(), "not expired")
}

func TestParseExpiredTokenRejectsBadSignature(t *testing.T) {
	svc := NewTokenService(testTokenConfig(-time.Minute))
	other := NewTokenService(TokenConfig{
		Secret:         []byte("a-completely-different-signing-key"),
		Issuer:         "users-backend",
		Audience:       "users-backend-clients",
		AccessTTL:      -time.Minute,
		RefreshTTLDays: 7,
	})
	signed, _, err := other.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	_, err = svc.ParseExpiredToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
}

func TestParseExpiredTokenRejectsWrongIssuerAndAudience(t *testing.T) {
	svc := NewTokenService(testTokenConfig(-time.Minute))

	mint := func(issuer, audience string) string {
		claims := &AccessClaims{
			UserID: uuid.NewString(),
			Role:   "User",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "ana@example.com",
				ID:        uuid.NewString(),
				Issuer:    issuer,
				Audience:  jwt.ClaimStrings{audience},
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key-test-signing-key"))
		require.NoError(t, err)
		return signed
	}

	_, err := svc.ParseExpiredToken(mint("someone-else", "users-backend-clients"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))

	_, err = svc.ParseExpiredToken(mint("users-backend", "other-clients"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
}

func TestParseExpiredTokenRejectsUnsignedAlg(t *testing.T) {
	svc := NewTokenService(testTokenConfig(-time.Minute))
	claims := &AccessClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "users-backend",
			Audience:  jwt.ClaimStrings{"users-backend-clients"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ParseExpiredToken(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
}

func TestParseExpiredTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testTokenConfig(-time.Minute))
	for _, raw := range []string{"", "not.a.jwt", "aaaa"} {
		_, err := svc.ParseExpiredToken(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrSecurityToken))
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))

	a, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
}

func TestRefreshTokenExpiry(t *testing.T) {
	svc := NewTokenService(testTokenConfig(15 * time.Minute))
	exp := svc.RefreshTokenExpiry()
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), exp, 2*time.Second)
}
