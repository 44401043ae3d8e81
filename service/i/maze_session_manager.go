package i

import (
	"context"

	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/solver"
	"github.com/google/uuid"
)

// MazeSessionManager owns the maze sessions of all players.
type MazeSessionManager interface {
	// NewSession generates a maze of the given size (0 for the default) and
	// places the player on its start cell. Any previous session of the
	// player is closed.
	NewSession(ctx context.Context, player game.Player, size int) (game.State, error)

	// Session returns the current state of a session owned by playerID.
	Session(playerID, sessionID uuid.UUID) (game.State, error)

	// Move applies one move of the player's agent.
	Move(ctx context.Context, playerID, sessionID uuid.UUID, dir maze.Direction) (game.MoveResult, error)

	// Regenerate replaces the maze of the session and resets the agent.
	Regenerate(ctx context.Context, playerID, sessionID uuid.UUID) (game.State, error)

	// Solution returns the optimal path from the start cell to the goal.
	Solution(playerID, sessionID uuid.UUID) (solver.Path, error)

	// Playback walks the agent from its current cell to the goal, one move
	// per tick. The returned playback is already running.
	Playback(ctx context.Context, playerID, sessionID uuid.UUID) (*game.Playback, error)

	// Close ends the session.
	Close(playerID, sessionID uuid.UUID) error
}
