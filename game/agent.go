package game

import (
	"errors"

	"github.com/ThanosTheo/maze-singleplayer/maze"
)

// Game-related errors.
var (
	ErrInvalidMove  = errors.New("invalid move request")
	ErrInvalidStart = errors.New("start and goal must be distinct cells inside the maze")
	ErrNilGrid      = errors.New("maze is not generated")
)

// Mover applies a single validated move.
type Mover interface {
	Move(dir maze.Direction) (maze.Move, error)
}

var _ Mover = &Agent{}

// Agent is a walker inside a maze. It owns its position and consults
// maze.CanMove for every move; it is not safe for concurrent use.
type Agent struct {
	grid  *maze.Grid
	start maze.Cell
	goal  maze.Cell
	pos   maze.Cell
	moves int
}

// NewAgent places an agent on start of grid g, heading for goal.
func NewAgent(g *maze.Grid, start, goal maze.Cell) (*Agent, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if !g.InBound(start) || !g.InBound(goal) || start == goal {
		return nil, ErrInvalidStart
	}

	return &Agent{
		grid:  g,
		start: start,
		goal:  goal,
		pos:   start,
	}, nil
}

// Move steps one cell in dir if no wall is in the way.
func (a *Agent) Move(dir maze.Direction) (maze.Move, error) {
	if !maze.CanMove(a.grid, a.pos, dir) {
		return maze.Move{}, ErrInvalidMove
	}

	move := maze.Move{From: a.pos, To: a.pos.Step(dir), Direction: dir}
	a.pos = move.To
	a.moves++
	return move, nil
}

// Reset puts the agent back on its start cell inside a freshly generated
// grid. The new grid must contain the start and goal cells.
func (a *Agent) Reset(g *maze.Grid) error {
	if g == nil {
		return ErrNilGrid
	}
	if !g.InBound(a.start) || !g.InBound(a.goal) {
		return ErrInvalidStart
	}

	a.grid = g
	a.pos = a.start
	a.moves = 0
	return nil
}

// Position returns the current cell of the agent.
func (a *Agent) Position() maze.Cell {
	return a.pos
}

// Start returns the cell the agent starts from.
func (a *Agent) Start() maze.Cell {
	return a.start
}

// Goal returns the target cell.
func (a *Agent) Goal() maze.Cell {
	return a.goal
}

// Moves returns the number of moves applied since the last reset.
func (a *Agent) Moves() int {
	return a.moves
}

// AtGoal reports whether the agent stands on the goal cell.
func (a *Agent) AtGoal() bool {
	return a.pos == a.goal
}

// Grid returns the maze the agent walks in.
func (a *Agent) Grid() *maze.Grid {
	return a.grid
}
