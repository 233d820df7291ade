package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordIterations = 100_000
	passwordKeyLength  = sha512.Size
)

// PasswordHasher derives PBKDF2-HMAC-SHA512 hashes salted with the server
// secret. The same password and secret always give the same hash.
type PasswordHasher struct {
	salt []byte
}

func NewPasswordHasher(secret string) *PasswordHasher {
	return &PasswordHasher{salt: []byte(secret)}
}

// Hash returns the derived key as uppercase hex.
func (h *PasswordHasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.salt, passwordIterations, passwordKeyLength, sha512.New)
	return strings.ToUpper(hex.EncodeToString(key))
}

// Verify reports whether password matches known. An undecodable known hash
// is a mismatch.
func (h *PasswordHasher) Verify(password, known string) bool {
	expected, err := hex.DecodeString(known)
	if err != nil || len(expected) != passwordKeyLength {
		return false
	}

	derived := pbkdf2.Key([]byte(password), h.salt, passwordIterations, passwordKeyLength, sha512.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
