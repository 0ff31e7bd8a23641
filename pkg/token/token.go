package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	linkTokenBytes            = 32
	logPrefixLength           = 8
	redactedSuffix            = "..."
	errGenerateRandomBytesFmt = "failed to generate random bytes: %w"
	errByteLengthPositiveFmt  = "byteLength must be positive"
)

func GenerateHex(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf(errByteLengthPositiveFmt)
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateLinkToken returns a 64 character hex secret for download and
// selection links.
func GenerateLinkToken() (string, error) {
	return GenerateHex(linkTokenBytes)
}

func prefix(token string, length int) string {
	if len(token) < length {
		return token
	}
	return token[:length]
}

// Redact is the only form of a token that may appear in logs.
func Redact(token string) string {
	return prefix(token, logPrefixLength) + redactedSuffix
}

// Equal compares two tokens in constant time. Inputs are hashed first so the
// comparison does not leak length.
func Equal(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1 && a != "" && b != ""
}
