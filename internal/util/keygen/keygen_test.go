package keygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIsURLSafe(t *testing.T) {
	token, err := Token()
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestTokenLength(t *testing.T) {
	token, err := Token()
	require.NoError(t, err)

	// 16 bytes base64url without padding
	assert.Len(t, token, 22)
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token, err := Token()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
