package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Wall is a bitmask of the walls owned by a single cell.
// A cell only owns its bottom and right edges; the top edge belongs to the
// cell above and the left edge to the cell on the left.
type Wall uint8

const (
	WallRight  Wall = 0b01 // WallRight marks a wall on the east edge of the cell.
	WallBottom Wall = 0b10 // WallBottom marks a wall on the south edge of the cell.

	allWalls = WallRight | WallBottom
)

// Direction is one of the four orthogonal moves an agent can make.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var (
	// Directions lists the moves in the canonical expansion order.
	Directions = []Direction{Up, Down, Left, Right}

	ErrUnknownDirection = errors.New("unknown direction")

	directionNames = map[Direction]string{
		Up:    "UP",
		Down:  "DOWN",
		Left:  "LEFT",
		Right: "RIGHT",
	}

	deltas = map[Direction]Cell{
		Up:    {Row: -1, Col: 0},
		Down:  {Row: 1, Col: 0},
		Left:  {Row: 0, Col: -1},
		Right: {Row: 0, Col: 1},
	}
)

// String returns the upper-case name of the direction.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Opposite returns the direction that undoes d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// MarshalText implements encoding.TextMarshaler so directions serialize by name.
func (d Direction) MarshalText() ([]byte, error) {
	name, ok := directionNames[d]
	if !ok {
		return nil, ErrUnknownDirection
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	dir, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}

// ParseDirection converts a direction name (case-insensitive) into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "NORTH":
		return Up, nil
	case "DOWN", "SOUTH":
		return Down, nil
	case "LEFT", "WEST":
		return Left, nil
	case "RIGHT", "EAST":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Cell is a position in the grid.
type Cell struct {
	Row int `json:"row"` // Row index, 0 at the top.
	Col int `json:"col"` // Column index, 0 at the left.
}

// Step returns the cell reached by moving one unit in dir. The result may lie
// outside the grid.
func (c Cell) Step(dir Direction) Cell {
	d := deltas[dir]
	return Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

// String renders the cell as "row,col".
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Move represents a movement from one cell to an adjacent one.
type Move struct {
	From      Cell      `json:"from"`
	To        Cell      `json:"to"`
	Direction Direction `json:"direction"`
}
