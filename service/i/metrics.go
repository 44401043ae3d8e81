package i

import "time"

// MazeMetrics receives measurements from the maze sessions.
type MazeMetrics interface {
	MazeGenerated(size int, took time.Duration)
	PathSearched(size int, found bool, took time.Duration)
	MoveApplied(accepted bool)
	RunFinished(autopilot bool)
	SessionsActive(n int)
}
