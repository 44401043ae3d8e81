package maze

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// OpenEdges counts the passages of g, each shared edge counted once.
func OpenEdges(g *Grid) int {
	edges := 0
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			c := Cell{Row: row, Col: col}
			if CanMove(g, c, Right) {
				edges++
			}
			if CanMove(g, c, Down) {
				edges++
			}
		}
	}
	return edges
}

// Reachable returns every cell reachable from start through legal moves.
func Reachable(g *Grid, start Cell) mapset.Set[Cell] {
	seen := mapset.New[Cell]()
	if !g.InBound(start) {
		return seen
	}

	seen.Put(start)
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, m := range Neighbors(g, c) {
			if seen.Has(m.To) {
				continue
			}
			seen.Put(m.To)
			queue = append(queue, m.To)
		}
	}
	return seen
}

// Validate checks that g is a perfect maze: every cell reachable from (0,0)
// and exactly size²-1 passages, so the passages form a spanning tree.
func Validate(g *Grid) error {
	if g == nil || g.size <= 0 {
		return ErrInvalidSize
	}

	total := g.size * g.size
	if reached := Reachable(g, Cell{}).Size(); reached != total {
		return fmt.Errorf("%w: reached %d of %d cells", ErrDisconnected, reached, total)
	}

	if edges := OpenEdges(g); edges != total-1 {
		return fmt.Errorf("%w: %d passages, want %d", ErrCyclic, edges, total-1)
	}
	return nil
}
