// Package valueobject holds immutable domain values constructed only through validation.
package valueobject

import (
	"fmt"
	"strings"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
)

// Email is a validated, immutable email address. The zero value is invalid;
// always construct through NewEmail.
type Email struct {
	value string
}

// NewEmail validates raw and returns an Email value. The rules are deliberately
// permissive: non-blank, contains "@", contains ".". Nothing stricter (no
// single-@ check, no length bound).
func NewEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, fmt.Errorf("%w: email is required", apperr.ErrInvalidArgument)
	}
	if !strings.Contains(raw, "@") {
		return Email{}, fmt.Errorf("%w: invalid email", apperr.ErrInvalidArgument)
	}
	if !strings.Contains(raw, ".") {
		return Email{}, fmt.Errorf("%w: invalid email", apperr.ErrInvalidArgument)
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

// Equals compares by underlying value; two instances with the same string are
// interchangeable.
func (e Email) Equals(other Email) bool { return e.value == other.value }
