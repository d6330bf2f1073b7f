// Package apperr contains sentinel errors used across layers for stable error mapping.
package apperr

import "errors"

var (
	// ErrInvalidArgument indicates malformed input (blank required field, malformed email).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized indicates a credential mismatch at login. The message never
	// reveals whether the email or the password was wrong.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrConflict indicates a uniqueness violation (email or username already taken).
	ErrConflict = errors.New("already exists")

	// ErrSecurityToken covers every refresh-path failure: bad signature, wrong
	// algorithm, a not-yet-expired token presented for rotation, unknown user,
	// or a stale/mismatched refresh secret. Undifferentiated on purpose.
	ErrSecurityToken = errors.New("invalid or expired token")

	// ErrNotFound indicates the requested entity does not exist. Distinct from
	// ErrUnauthorized: absence of a resource is not a credential failure.
	ErrNotFound = errors.New("not found")
)
