package i

import (
	"context"

	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/identity"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, user *identity.User) error

	// ByID retrieves a user by their unique ID.
	// Returns identity.ErrUserNotFound if there is no such user.
	ByID(ctx context.Context, id uuid.UUID) (*identity.User, error)

	// ByUsername retrieves a user by their username.
	// Returns identity.ErrUserNotFound if there is no such user.
	ByUsername(ctx context.Context, username string) (*identity.User, error)
}

// RunRepo stores the history of finished runs.
type RunRepo interface {
	Save(ctx context.Context, run *game.Run) error

	// ByPlayer returns the most recent runs of a player, newest first.
	ByPlayer(ctx context.Context, playerID uuid.UUID, limit int64) ([]*game.Run, error)
}
