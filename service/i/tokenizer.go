package i

import (
	"time"
)

// Tokenizer defines methods for generating and decoding bearer tokens.
type Tokenizer interface {
	// Generate creates a token with the given claims, valid for ttl.
	Generate(claims map[string]interface{}, ttl time.Duration) (string, error)

	// Decode validates a token and returns its claims. Expired or
	// tampered tokens are rejected.
	Decode(token string) (map[string]interface{}, error)
}
