package solver

import (
	"math/rand"
	"testing"

	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wr = maze.WallRight
	wb = maze.WallBottom
)

// serpentine is a 3×3 maze with a single corridor:
//
//	+---+---+---+
//	|           |
//	+---+---+   +
//	|           |
//	+   +---+---+
//	|           |
//	+---+---+---+
func serpentine(t *testing.T) *maze.Grid {
	t.Helper()
	g, err := maze.NewGridFromWalls([][]maze.Wall{
		{wb, wb, wr},
		{0, wb, wr | wb},
		{wb, wb, wr | wb},
	})
	require.NoError(t, err)
	require.NoError(t, maze.Validate(g))
	return g
}

// bfsDistance returns the number of moves between two cells, or -1.
func bfsDistance(g *maze.Grid, start, goal maze.Cell) int {
	dist := map[maze.Cell]int{start: 0}
	queue := []maze.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[c]
		}
		for _, m := range maze.Neighbors(g, c) {
			if _, seen := dist[m.To]; !seen {
				dist[m.To] = dist[c] + 1
				queue = append(queue, m.To)
			}
		}
	}
	return -1
}

func TestFindPath(t *testing.T) {
	t.Run("Follows the only corridor", func(t *testing.T) {
		g := serpentine(t)
		path, found, err := FindPath(g, maze.Cell{Row: 0, Col: 0}, maze.Cell{Row: 2, Col: 2})
		require.NoError(t, err)
		require.True(t, found)

		want := Path{maze.Right, maze.Right, maze.Down, maze.Left, maze.Left, maze.Down, maze.Right, maze.Right}
		assert.Equal(t, want, path)
		assert.Equal(t, bfsDistance(g, maze.Cell{}, maze.Cell{Row: 2, Col: 2}), len(path))
	})

	t.Run("Works in reverse", func(t *testing.T) {
		g := serpentine(t)
		path, found, err := FindPath(g, maze.Cell{Row: 2, Col: 2}, maze.Cell{Row: 0, Col: 0})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, Path{maze.Left, maze.Left, maze.Up, maze.Right, maze.Right, maze.Up, maze.Left, maze.Left}, path)
	})

	t.Run("Breaks ties by open-set insertion order", func(t *testing.T) {
		// Every internal wall removed: two equally short routes exist.
		open, err := maze.NewGridFromWalls([][]maze.Wall{
			{0, wr},
			{wb, wr | wb},
		})
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			path, found, err := FindPath(open, maze.Cell{}, maze.Cell{Row: 1, Col: 1})
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, Path{maze.Down, maze.Right}, path)
		}
	})

	t.Run("Reports an unreachable goal", func(t *testing.T) {
		g, err := maze.NewGridFromWalls([][]maze.Wall{
			{wb, wr},
			{wr | wb, wr | wb},
		})
		require.NoError(t, err)

		path, found, err := FindPath(g, maze.Cell{}, maze.Cell{Row: 1, Col: 0})
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, path)
	})

	t.Run("Rejects invalid arguments", func(t *testing.T) {
		g := serpentine(t)

		_, _, err := FindPath(nil, maze.Cell{}, maze.Cell{Row: 1, Col: 1})
		assert.ErrorIs(t, err, ErrNilGrid)

		_, _, err = FindPath(g, maze.Cell{Row: -1, Col: 0}, maze.Cell{Row: 1, Col: 1})
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, _, err = FindPath(g, maze.Cell{}, maze.Cell{Row: 3, Col: 3})
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, _, err = FindPath(g, maze.Cell{Row: 1, Col: 1}, maze.Cell{Row: 1, Col: 1})
		assert.ErrorIs(t, err, ErrSameCell)
	})

	t.Run("Size two always takes two moves", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			g, err := maze.NewGenerator(rand.NewSource(seed)).Generate(2)
			require.NoError(t, err)

			path, found, err := FindPath(g, maze.Cell{}, maze.Cell{Row: 1, Col: 1})
			require.NoError(t, err)
			require.True(t, found)
			assert.Len(t, path, 2)
		}
	})

	t.Run("Generated mazes are solved optimally and soundly", func(t *testing.T) {
		for seed := int64(1); seed <= 10; seed++ {
			size := 5 + int(seed)*3
			g, err := maze.NewGenerator(rand.NewSource(seed)).Generate(size)
			require.NoError(t, err)

			start := maze.Cell{}
			goal := maze.Cell{Row: size - 1, Col: size - 1}
			path, found, err := FindPath(g, start, goal)
			require.NoError(t, err)
			require.True(t, found, "seed %d", seed)

			end, err := Replay(g, start, path)
			require.NoError(t, err)
			assert.Equal(t, goal, end)
			assert.Equal(t, bfsDistance(g, start, goal), len(path), "seed %d", seed)
		}
	})
}

func TestReplay(t *testing.T) {
	g := serpentine(t)

	end, err := Replay(g, maze.Cell{}, Path{maze.Right, maze.Right, maze.Down})
	require.NoError(t, err)
	assert.Equal(t, maze.Cell{Row: 1, Col: 2}, end)

	end, err = Replay(g, maze.Cell{}, Path{maze.Right, maze.Down})
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.Equal(t, maze.Cell{Row: 0, Col: 1}, end)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(maze.Cell{}, maze.Cell{}))
	assert.Equal(t, 1.0, Distance(maze.Cell{Row: 2, Col: 3}, maze.Cell{Row: 2, Col: 4}))
	assert.Equal(t, 5.0, Distance(maze.Cell{}, maze.Cell{Row: 3, Col: 4}))
}
