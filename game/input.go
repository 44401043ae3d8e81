package game

import (
	"strings"

	"github.com/ThanosTheo/maze-singleplayer/maze"
)

// Browser key codes for the arrow keys and WASD.
const (
	keyCodeLeft  = 37
	keyCodeUp    = 38
	keyCodeRight = 39
	keyCodeDown  = 40
	keyCodeA     = 65
	keyCodeD     = 68
	keyCodeS     = 83
	keyCodeW     = 87
)

var (
	keyDirections = map[string]maze.Direction{
		"arrowup":    maze.Up,
		"w":          maze.Up,
		"arrowdown":  maze.Down,
		"s":          maze.Down,
		"arrowleft":  maze.Left,
		"a":          maze.Left,
		"arrowright": maze.Right,
		"d":          maze.Right,
	}

	keyCodeDirections = map[int]maze.Direction{
		keyCodeUp:    maze.Up,
		keyCodeW:     maze.Up,
		keyCodeDown:  maze.Down,
		keyCodeS:     maze.Down,
		keyCodeLeft:  maze.Left,
		keyCodeA:     maze.Left,
		keyCodeRight: maze.Right,
		keyCodeD:     maze.Right,
	}
)

// DirectionForKey maps a key name ("ArrowUp", "w", ...) to a direction.
func DirectionForKey(key string) (maze.Direction, bool) {
	dir, ok := keyDirections[strings.ToLower(strings.TrimSpace(key))]
	return dir, ok
}

// DirectionForKeyCode maps a browser key code to a direction.
func DirectionForKeyCode(code int) (maze.Direction, bool) {
	dir, ok := keyCodeDirections[code]
	return dir, ok
}
