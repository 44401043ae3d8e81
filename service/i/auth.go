package i

import (
	"context"

	"github.com/ThanosTheo/maze-singleplayer/identity"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error

	// SignIn returns the user and a bearer token for it.
	SignIn(ctx context.Context, username, password string) (*identity.User, string, error)
}
