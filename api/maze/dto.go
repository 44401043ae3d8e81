// Package mazeapi serves the maze game over HTTP. MazeController owns the
// per-player routes: creating and regenerating mazes, manual moves, the
// optimal solution, the SSE playback stream and the run history.
// LeaderboardController serves the public best times per maze size.
// The request and response bodies of those routes live in this file.
package mazeapi

import (
	"time"

	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/google/uuid"
)

// NewMazeRequest asks for a fresh maze. A zero size selects the default.
type NewMazeRequest struct {
	Size int `json:"size" binding:"gte=0"`
}

// MoveRequest carries one move, either as a direction name ("UP"), a key
// name ("ArrowUp", "w") or a browser key code.
type MoveRequest struct {
	Direction string `json:"direction"`
	Key       string `json:"key"`
	KeyCode   int    `json:"key_code"`
}

// MazeResponse describes a maze session. Walls holds the wall bits of each
// cell, row by row: 1 for a right wall, 2 for a bottom wall.
type MazeResponse struct {
	ID        uuid.UUID `json:"id"`
	Size      int       `json:"size"`
	Walls     [][]int   `json:"walls"`
	Position  maze.Cell `json:"position"`
	Goal      maze.Cell `json:"goal"`
	Moves     int       `json:"moves"`
	Finished  bool      `json:"finished"`
	Autopilot bool      `json:"autopilot"`
	StartedAt time.Time `json:"started_at"`
}

// MoveResponse describes an applied move.
type MoveResponse struct {
	From      maze.Cell      `json:"from"`
	To        maze.Cell      `json:"to"`
	Direction maze.Direction `json:"direction"`
	Moves     int            `json:"moves"`
	Finished  bool           `json:"finished"`
}

// SolutionResponse is the optimal path from the start cell to the goal.
type SolutionResponse struct {
	Path   []maze.Direction `json:"path"`
	Length int              `json:"length"`
}

// RunResponse is a finished run. Efficiency is optimal_moves / moves, so an
// optimal walk scores 1.
type RunResponse struct {
	ID           uuid.UUID `json:"id"`
	Size         int       `json:"size"`
	Moves        int       `json:"moves"`
	OptimalMoves int       `json:"optimal_moves"`
	Efficiency   float64   `json:"efficiency"`
	Autopilot    bool      `json:"autopilot"`
	Seconds      float64   `json:"seconds"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// LeaderboardResponse is one board; Total counts every ranked player, not
// only the returned entries.
type LeaderboardResponse struct {
	Size    int                     `json:"size"`
	Total   int64                   `json:"total"`
	Entries []game.LeaderboardEntry `json:"entries"`
}

func newMazeResponse(st game.State) *MazeResponse {
	matrix := st.Grid.WallMatrix()
	walls := make([][]int, len(matrix))
	for r, row := range matrix {
		walls[r] = make([]int, len(row))
		for c, w := range row {
			walls[r][c] = int(w)
		}
	}

	return &MazeResponse{
		ID:        st.SessionID,
		Size:      st.Grid.Size(),
		Walls:     walls,
		Position:  st.Position,
		Goal:      st.Goal,
		Moves:     st.Moves,
		Finished:  st.Finished,
		Autopilot: st.Autopilot,
		StartedAt: st.StartedAt,
	}
}

func newMoveResponse(move maze.Move, moves int, finished bool) *MoveResponse {
	return &MoveResponse{
		From:      move.From,
		To:        move.To,
		Direction: move.Direction,
		Moves:     moves,
		Finished:  finished,
	}
}

func newRunResponses(runs []*game.Run) []*RunResponse {
	out := make([]*RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, &RunResponse{
			ID:           run.ID,
			Size:         run.Size,
			Moves:        run.Moves,
			OptimalMoves: run.OptimalMoves,
			Efficiency:   run.Efficiency(),
			Autopilot:    run.Autopilot,
			Seconds:      run.Score(),
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
		})
	}
	return out
}
