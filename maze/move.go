package maze

// CanMove reports whether an agent standing on from may move one step in dir.
//
// Moving up or left checks the wall owned by the target cell, moving down or
// right checks the wall owned by the current cell. A move that starts or ends
// outside the grid is never legal.
func CanMove(g *Grid, from Cell, dir Direction) bool {
	if g == nil || !g.InBound(from) {
		return false
	}

	to := from.Step(dir)
	if !g.InBound(to) {
		return false
	}

	switch dir {
	case Up:
		return !g.HasWall(to, WallBottom)
	case Left:
		return !g.HasWall(to, WallRight)
	case Down:
		return !g.HasWall(from, WallBottom)
	case Right:
		return !g.HasWall(from, WallRight)
	default:
		return false
	}
}

// Neighbors returns the legal moves from c in the canonical order
// Up, Down, Left, Right.
func Neighbors(g *Grid, c Cell) []Move {
	var result []Move
	for _, dir := range Directions {
		if CanMove(g, c, dir) {
			result = append(result, Move{From: c, To: c.Step(dir), Direction: dir})
		}
	}
	return result
}
