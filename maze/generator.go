package maze

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// MaxSize bounds the side length accepted by the generator.
	MaxSize = 200
)

// neighbourOrder is the order in which unvisited neighbours are collected
// before one is picked at random.
var neighbourOrder = []Direction{Up, Right, Down, Left}

// Generator carves perfect mazes with the recursive backtracker.
type Generator struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewGenerator returns a generator drawing from src. A nil source is seeded
// from the clock, so mazes differ between runs.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate creates a new size×size maze.
func (gen *Generator) Generate(size int) (*Grid, error) {
	if size <= 0 || size > MaxSize {
		return nil, ErrInvalidSize
	}

	gen.mu.Lock()
	defer gen.mu.Unlock()

	g := newGrid(size)
	visited := make([]bool, size*size)

	start := Cell{Row: 0, Col: 0}
	visited[0] = true
	stack := []Cell{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]

		candidates := g.unvisitedNeighbours(current, visited)
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		dir := candidates[gen.rng.Intn(len(candidates))]
		next := current.Step(dir)
		g.openWall(current, dir)
		visited[next.Row*size+next.Col] = true
		stack = append(stack, next)
	}

	return g, nil
}

// unvisitedNeighbours returns the directions from c that lead to in-bound,
// unvisited cells.
func (g *Grid) unvisitedNeighbours(c Cell, visited []bool) []Direction {
	var result []Direction
	for _, dir := range neighbourOrder {
		n := c.Step(dir)
		if !g.InBound(n) {
			continue
		}
		if !visited[n.Row*g.size+n.Col] {
			result = append(result, dir)
		}
	}
	return result
}

// openWall removes the wall between c and its neighbour in dir. The bit is
// cleared on whichever of the two cells owns the shared edge.
func (g *Grid) openWall(c Cell, dir Direction) {
	switch dir {
	case Right:
		g.clearWall(c, WallRight)
	case Down:
		g.clearWall(c, WallBottom)
	case Left:
		g.clearWall(c.Step(Left), WallRight)
	case Up:
		g.clearWall(c.Step(Up), WallBottom)
	}
}
