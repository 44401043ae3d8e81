/*
Package maze provides the square grid model of a perfect maze.

A Grid stores one Wall bitmask per cell. Walls are created by the Generator,
which carves a random spanning tree with the recursive backtracker, and are
read through CanMove, the single move-legality predicate shared by the
interactive agent and the path search.

The package also offers an ASCII renderer and a validator for the
spanning-tree invariant of generated grids.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSize  = errors.New("invalid maze size")
	ErrInvalidGrid  = errors.New("invalid grid layout")
	ErrOutOfBounds  = errors.New("cell is out of the maze")
	ErrDisconnected = errors.New("maze is not fully connected")
	ErrCyclic       = errors.New("maze contains a cycle")
)

// Grid is an N×N maze. It is immutable once returned by the Generator.
type Grid struct {
	size  int
	walls []Wall
}

// newGrid returns a grid of the given size with every wall present.
func newGrid(size int) *Grid {
	walls := make([]Wall, size*size)
	for i := range walls {
		walls[i] = allWalls
	}
	return &Grid{size: size, walls: walls}
}

// NewGridFromWalls builds a grid from an explicit wall matrix indexed
// [row][col]. The matrix must be square and non-empty. Bits other than
// WallRight and WallBottom are rejected.
func NewGridFromWalls(walls [][]Wall) (*Grid, error) {
	size := len(walls)
	if size == 0 {
		return nil, ErrInvalidSize
	}

	g := &Grid{size: size, walls: make([]Wall, size*size)}
	for row := range walls {
		if len(walls[row]) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, row, len(walls[row]), size)
		}
		for col, w := range walls[row] {
			if w&^allWalls != 0 {
				return nil, fmt.Errorf("%w: unknown wall bits %#b at %d,%d", ErrInvalidGrid, w, row, col)
			}
			g.walls[row*size+col] = w
		}
	}
	return g, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// InBound reports whether c lies inside the grid.
func (g *Grid) InBound(c Cell) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// Walls returns the wall bitmask of c. Cells outside the grid report every
// wall as present.
func (g *Grid) Walls(c Cell) Wall {
	if !g.InBound(c) {
		return allWalls
	}
	return g.walls[c.Row*g.size+c.Col]
}

// HasWall reports whether c owns wall w.
func (g *Grid) HasWall(c Cell, w Wall) bool {
	return g.Walls(c)&w != 0
}

// WallMatrix returns a copy of the walls indexed [row][col].
func (g *Grid) WallMatrix() [][]Wall {
	matrix := make([][]Wall, g.size)
	for row := range matrix {
		matrix[row] = make([]Wall, g.size)
		copy(matrix[row], g.walls[row*g.size:(row+1)*g.size])
	}
	return matrix
}

// Equal reports whether two grids have the same size and walls.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.size != other.size {
		return false
	}
	for i := range g.walls {
		if g.walls[i] != other.walls[i] {
			return false
		}
	}
	return true
}

// clearWall removes wall w from c.
func (g *Grid) clearWall(c Cell, w Wall) {
	g.walls[c.Row*g.size+c.Col] &^= w
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	return Render(g, nil)
}

// Render draws the grid as ASCII art. Cells present in marks are drawn with
// the given rune, e.g. the agent position or the cells of a solution.
func Render(g *Grid, marks map[Cell]rune) string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+" + strings.Repeat("---+", g.size) + "\n")

	for row := 0; row < g.size; row++ {
		b.WriteString("|")
		for col := 0; col < g.size; col++ {
			c := Cell{Row: row, Col: col}
			if r, ok := marks[c]; ok {
				b.WriteString(" " + string(r) + " ")
			} else {
				b.WriteString("   ")
			}

			if g.HasWall(c, WallRight) {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")

		b.WriteString("+")
		for col := 0; col < g.size; col++ {
			if g.HasWall(Cell{Row: row, Col: col}, WallBottom) {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
