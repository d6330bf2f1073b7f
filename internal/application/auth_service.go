// Package application contains the use-case services that sequence the domain,
// token handling and persistence.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	repo "github.com/oksasatya/users-backend/internal/domain/repository"
	"github.com/oksasatya/users-backend/internal/domain/valueobject"
	"github.com/oksasatya/users-backend/pkg/helpers"
	"github.com/oksasatya/users-backend/pkg/mailer"
)

// TokenPair is the transient result of login, register and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the profile fields for self-registration.
type RegisterInput struct {
	Name     string
	LastName string
	Email    string
	UserName string
	Password string
	Role     entity.Role
}

// AuthService orchestrates login, registration and refresh-token rotation.
type AuthService struct {
	repo   repo.UserRepository
	tokens *TokenService
	logger *logrus.Logger
	pub    *helpers.RabbitPublisher // optional; welcome emails
}

func NewAuthService(r repo.UserRepository, tokens *TokenService, logger *logrus.Logger, pub *helpers.RabbitPublisher) *AuthService {
	return &AuthService{repo: r, tokens: tokens, logger: logger, pub: pub}
}

// Login authenticates by email and password. Unknown email, soft-deleted user
// and wrong password all fail with the same ErrUnauthorized; the caller learns
// nothing about which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if email == "" || password == "" {
		return TokenPair{}, fmt.Errorf("%w: email and password are required", apperr.ErrInvalidArgument)
	}
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.repo.GetByEmail(ctx, emailVO)
	if err != nil || u == nil || u.IsDeleted() || !helpers.VerifyPassword(u.PasswordHash(), password) {
		return TokenPair{}, apperr.ErrUnauthorized
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.WithField("user_id", u.ID()).Info("login successful")
	return pair, nil
}

// Register creates a new user and immediately issues a token pair. Both email
// and username uniqueness are checked here, matching the administrative create
// path.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
	emailVO, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return TokenPair{}, err
	}
	if existing, err := s.repo.GetByEmail(ctx, emailVO); err == nil && existing != nil {
		return TokenPair{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return TokenPair{}, err
	}
	if existing, err := s.repo.GetByUserName(ctx, in.UserName); err == nil && existing != nil {
		return TokenPair{}, fmt.Errorf("%w: username already taken", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return TokenPair{}, err
	}

	u, err := entity.NewUser(in.Name, in.LastName, in.Email, in.UserName, helpers.HashPassword(in.Password), in.Role)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID(), "username": u.UserName()}).Info("user registered")
	s.sendWelcomeEmail(ctx, u)
	return pair, nil
}

// Refresh rotates a token pair. Every failure collapses to ErrSecurityToken so
// a caller cannot tell a bad signature from a stale refresh secret.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.ParseExpiredToken(accessToken)
	if err != nil {
		return TokenPair{}, err
	}
	if claims.UserID == "" {
		return TokenPair{}, fmt.Errorf("%w: missing identity claim", apperr.ErrSecurityToken)
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return TokenPair{}, fmt.Errorf("%w: malformed identity claim", apperr.ErrSecurityToken)
	}
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, apperr.ErrSecurityToken
	}
	if u.RefreshToken() != refreshToken || !u.RefreshTokenExpiresAt().After(time.Now()) {
		return TokenPair{}, apperr.ErrSecurityToken
	}
	// Overwriting the stored secret makes the rotation single-use: the old
	// refresh token dies the instant the new pair is persisted.
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.WithField("user_id", u.ID()).Debug("token pair rotated")
	return pair, nil
}

// Logout revokes the stored refresh token so it can no longer be rotated.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.RevokeRefreshToken()
	return s.repo.Update(ctx, u)
}

func (s *AuthService) issuePair(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, _, err := s.tokens.GenerateAccessToken(u.ID(), u.Email().String(), u.Role())
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	u.UpdateRefreshToken(refresh, s.tokens.RefreshTokenExpiry())
	if err := s.repo.Update(ctx, u); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email().String(),
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name(), "UserName": u.UserName()},
	}
	if err := s.pub.PublishJSON(ctx, job); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID()).Warn("enqueue welcome email failed")
	}
}
