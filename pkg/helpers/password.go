package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase-hex SHA-256 digest of the plain password.
// Deterministic and unsalted so a candidate can be compared against the stored
// digest with plain string equality.
//
// Known limitation kept for compatibility with existing stored credentials:
// a fast unsalted digest is not an appropriate password KDF. A replacement
// would be memory-hard and per-user salted, with a migration for stored rows.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares a candidate password against a stored digest.
func VerifyPassword(storedDigest, candidate string) bool {
	return storedDigest == HashPassword(candidate)
}
