package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of password. The
// digest is unsalted so both storage backends accept accounts created by
// either one.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
