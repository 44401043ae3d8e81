package i

import (
	"context"

	"github.com/ThanosTheo/maze-singleplayer/game"
)

// Scoreboard keeps the best score of every player, one board per maze size.
type Scoreboard interface {
	// Submit records score for username unless a better one is already kept.
	Submit(ctx context.Context, size int, username string, score float64) error

	// Top returns up to n entries of the board, best first.
	Top(ctx context.Context, size int, n int64) ([]game.LeaderboardEntry, error)

	// Count returns the number of players on the board.
	Count(ctx context.Context, size int) (int64, error)
}
