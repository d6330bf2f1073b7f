package application

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
)

// TokenConfig carries signing material and lifetimes. It is passed in at
// construction; the service never reads ambient configuration.
type TokenConfig struct {
	Secret         []byte
	Issuer         string
	Audience       string
	AccessTTL      time.Duration
	RefreshTTLDays int
}

// AccessClaims is the claim set embedded in access tokens.
type AccessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints access tokens (short-lived HS256 JWTs) and refresh
// tokens (opaque high-entropy secrets), and re-derives claims from expired
// access tokens for the rotation path.
type TokenService struct {
	cfg TokenConfig
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// GenerateAccessToken signs an HS256 JWT with sub=email, the user id and role
// as custom claims, and a fresh jti so two tokens minted in the same instant
// never collide.
func (s *TokenService) GenerateAccessToken(userID, email string, role entity.Role) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(s.cfg.AccessTTL)
	claims := &AccessClaims{
		UserID: userID,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.cfg.Secret)
	return signed, exp, err
}

// GenerateRefreshToken returns 64 bytes from crypto/rand, base64-encoded.
// No embedded structure or expiry; validity is defined only by comparison
// against the value stored on the aggregate plus its server-side expiry.
func (s *TokenService) GenerateRefreshToken() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// RefreshTokenExpiry returns the server-side expiry instant for a refresh
// token issued now.
func (s *TokenService) RefreshTokenExpiry() time.Time {
	return time.Now().UTC().AddDate(0, 0, s.cfg.RefreshTTLDays)
}

// ParseAccessToken fully validates a live access token, expiry included.
// Used by the HTTP auth middleware.
func (s *TokenService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrSecurityToken, err)
	}
	if !tkn.Valid {
		return nil, apperr.ErrSecurityToken
	}
	return claims, nil
}

// ParseExpiredToken verifies an access token's framing, signature, algorithm,
// issuer and audience without enforcing expiry, then rejects tokens whose
// expiry has not actually passed. The rotation path serves only expired
// tokens; a still-valid token presented here is a misuse signal.
func (s *TokenService) ParseExpiredToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: malformed or badly signed access token", apperr.ErrSecurityToken)
	}
	if claims.Issuer != s.cfg.Issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", apperr.ErrSecurityToken)
	}
	if !hasAudience(claims.Audience, s.cfg.Audience) {
		return nil, fmt.Errorf("%w: audience mismatch", apperr.ErrSecurityToken)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", apperr.ErrSecurityToken)
	}
	if claims.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: token has not expired yet", apperr.ErrSecurityToken)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.cfg.Secret, nil
}

func hasAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
