// Package solver finds optimal routes through a maze with A* search.
//
// The search expands cells through maze.Neighbors, so it only ever proposes
// moves that maze.CanMove, and therefore the interactive agent, accepts.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/ThanosTheo/maze-singleplayer/maze"
)

var (
	ErrNilGrid     = errors.New("grid is nil")
	ErrOutOfBounds = errors.New("start or goal is out of the maze")
	ErrSameCell    = errors.New("start and goal are the same cell")
	ErrIllegalMove = errors.New("path contains an illegal move")
)

// Path is an ordered list of moves from a start cell to a goal cell.
type Path []maze.Direction

// step records how the search reached a cell.
type step struct {
	from maze.Cell
	dir  maze.Direction
}

// Distance is the Euclidean distance between two cells. It is both the
// heuristic and the step cost of the search.
func Distance(a, b maze.Cell) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// FindPath returns the shortest sequence of moves from start to goal.
//
// found is false when the goal cannot be reached; the path is nil in that
// case. An error is returned only for invalid arguments.
func FindPath(g *maze.Grid, start, goal maze.Cell) (path Path, found bool, err error) {
	if g == nil {
		return nil, false, ErrNilGrid
	}
	if !g.InBound(start) || !g.InBound(goal) {
		return nil, false, fmt.Errorf("%w: start %s goal %s size %d", ErrOutOfBounds, start, goal, g.Size())
	}
	if start == goal {
		return nil, false, ErrSameCell
	}

	gScore := make(map[maze.Cell]float64)
	cameFrom := make(map[maze.Cell]step)
	score := func(c maze.Cell) float64 {
		if s, ok := gScore[c]; ok {
			return s
		}
		return math.Inf(1)
	}

	open := newOpenSet()
	gScore[start] = 0
	open.push(start, Distance(start, goal))

	for open.len() > 0 {
		current, _ := open.pop()
		if current == goal {
			return reconstruct(cameFrom, start, goal), true, nil
		}

		for _, m := range maze.Neighbors(g, current) {
			tentative := score(current) + Distance(current, m.To)
			if tentative >= score(m.To) {
				continue
			}

			cameFrom[m.To] = step{from: current, dir: m.Direction}
			gScore[m.To] = tentative
			open.push(m.To, tentative+Distance(m.To, goal))
		}
	}

	return nil, false, nil
}

// reconstruct walks the came-from chain back from goal to start.
func reconstruct(cameFrom map[maze.Cell]step, start, goal maze.Cell) Path {
	var reversed Path
	for c := goal; c != start; {
		s := cameFrom[c]
		reversed = append(reversed, s.dir)
		c = s.from
	}

	path := make(Path, len(reversed))
	for i, dir := range reversed {
		path[len(reversed)-1-i] = dir
	}
	return path
}

// Replay applies path from start, checking every move with maze.CanMove,
// and returns the cell it ends on.
func Replay(g *maze.Grid, start maze.Cell, path Path) (maze.Cell, error) {
	current := start
	for i, dir := range path {
		if !maze.CanMove(g, current, dir) {
			return current, fmt.Errorf("%w: step %d %s from %s", ErrIllegalMove, i, dir, current)
		}
		current = current.Step(dir)
	}
	return current, nil
}
