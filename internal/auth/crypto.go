package auth

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for secret digests. Secrets are compared as digests so
// the comparison time does not depend on the presented length.
const (
	argon2Time    = 1
	argon2Memory  = 8 * 1024
	argon2Threads = 2
	argon2KeyLen  = 32
	saltLength    = 16
)

// SecretDigest holds a salted digest of a configured secret.
type SecretDigest struct {
	salt   []byte
	digest []byte
}

// NewSecretDigest returns nil for an empty secret.
func NewSecretDigest(secret string) *SecretDigest {
	if secret == "" {
		return nil
	}
	salt := make([]byte, saltLength)
	_, _ = rand.Read(salt)
	return &SecretDigest{salt: salt, digest: derive(secret, salt)}
}

// Matches reports whether presented equals the configured secret.
func (d *SecretDigest) Matches(presented string) bool {
	if d == nil {
		return false
	}
	return subtle.ConstantTimeCompare(derive(presented, d.salt), d.digest) == 1
}

func derive(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}
