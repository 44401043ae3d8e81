package identity

import (
	"errors"

	"github.com/google/uuid"
)

// Claim keys carried by bearer tokens.
const (
	ClaimUserID   = "userID"
	ClaimUsername = "username"
)

var ErrInvalidClaims = errors.New("token claims do not identify a user")

// Claims returns the token claims identifying u.
func Claims(u *User) map[string]interface{} {
	return map[string]interface{}{
		ClaimUserID:   u.ID.String(),
		ClaimUsername: u.Username,
	}
}

// FromClaims extracts the user ID and username from decoded token claims.
func FromClaims(claims map[string]interface{}) (uuid.UUID, string, error) {
	rawID, ok := claims[ClaimUserID].(string)
	if !ok {
		return uuid.Nil, "", ErrInvalidClaims
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidClaims
	}

	username, ok := claims[ClaimUsername].(string)
	if !ok || username == "" {
		return uuid.Nil, "", ErrInvalidClaims
	}

	return id, username, nil
}
