// Package handlers translates core outcomes into HTTP responses.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
	"github.com/oksasatya/users-backend/internal/domain/entity"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized), errors.Is(err, apperr.ErrSecurityToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the public message for an error, hiding internals behind
// a generic message for unexpected failures.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID(),
		"name":       u.Name(),
		"last_name":  u.LastName(),
		"email":      u.Email().String(),
		"user_name":  u.UserName(),
		"role":       u.Role().String(),
		"created_at": u.CreatedAt(),
		"is_deleted": u.IsDeleted(),
	}
}

func usersJSON(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	return out
}
