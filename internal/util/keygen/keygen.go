// Package keygen generates credential material for provisioned stores.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the entropy per generated token.
const TokenBytes = 16

// Token returns a URL-safe random string with TokenBytes of entropy.
// Every call draws fresh randomness; tokens are never reused.
func Token() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
