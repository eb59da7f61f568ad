package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MinSigningSecretBytes is the shortest secret GenerateSigningSecret accepts.
const MinSigningSecretBytes = 32

// GenerateSigningSecret returns a hex encoded random secret suitable for
// JWT_SECRET. lengthInBytes=32 yields 64 hex characters.
func GenerateSigningSecret(lengthInBytes int) (string, error) {
	if lengthInBytes < MinSigningSecretBytes {
		return "", fmt.Errorf("secret must be at least %d bytes, got %d", MinSigningSecretBytes, lengthInBytes)
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
