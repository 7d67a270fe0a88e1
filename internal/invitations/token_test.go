package invitations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateToken_NoCollisions generates a large batch and checks every
// token is distinct and non-trivial.
func TestGenerateToken_NoCollisions(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		token := GenerateToken()
		require.NotEmpty(t, token)
		require.False(t, seen[token], "duplicate token after %d generations", i)
		seen[token] = true
	}
}

func TestGenerateToken_URLSafe(t *testing.T) {
	token := GenerateToken()
	// 32 random bytes, base64url without padding
	assert.Len(t, token, 43)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}
