package invitations

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is the entropy of a guest access token. 32 random bytes,
// base64url-encoded, 43 chars; the DB uniqueness constraint on the column is
// the collision backstop.
const tokenBytes = 32

// GenerateToken returns a new URL-safe guest access token.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
