package game

import (
	"time"

	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/google/uuid"
)

// Player identifies the owner of a session.
type Player struct {
	ID       uuid.UUID
	Username string
}

// State is a snapshot of a maze session.
type State struct {
	SessionID uuid.UUID
	Grid      *maze.Grid // Shared, read-only.
	Position  maze.Cell
	Goal      maze.Cell
	Moves     int
	Finished  bool
	Autopilot bool
	StartedAt time.Time
}

// MoveResult describes the outcome of one move.
type MoveResult struct {
	Move     maze.Move
	Moves    int
	Finished bool
}

// LeaderboardEntry is one line of a leaderboard.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}
