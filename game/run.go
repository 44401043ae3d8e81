package game

import (
	"time"

	"github.com/google/uuid"
)

// Run is the record of a maze walked from start to goal.
type Run struct {
	ID           uuid.UUID     `bson:"_id" json:"id"`
	PlayerID     uuid.UUID     `bson:"playerId" json:"player_id"`
	Username     string        `bson:"username" json:"username"`
	Size         int           `bson:"size" json:"size"`
	Moves        int           `bson:"moves" json:"moves"`
	OptimalMoves int           `bson:"optimalMoves" json:"optimal_moves"`
	Autopilot    bool          `bson:"autopilot" json:"autopilot"` // Autopilot is set when playback made any of the moves.
	Duration     time.Duration `bson:"duration" json:"duration"`
	StartedAt    time.Time     `bson:"startedAt" json:"started_at"`
	FinishedAt   time.Time     `bson:"finishedAt" json:"finished_at"`
}

// Score is the leaderboard score of the run; lower is better.
func (r *Run) Score() float64 {
	return r.Duration.Seconds()
}

// Efficiency is the ratio between the optimal and the walked path length.
func (r *Run) Efficiency() float64 {
	if r.Moves == 0 {
		return 0
	}
	return float64(r.OptimalMoves) / float64(r.Moves)
}
