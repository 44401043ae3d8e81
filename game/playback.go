package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/solver"
)

const (
	// DefaultPlaybackDelay is the pause between two replayed moves.
	DefaultPlaybackDelay = 100 * time.Millisecond
)

var (
	ErrEmptyPath       = errors.New("nothing to play back")
	ErrInvalidDelay    = errors.New("playback delay must be positive")
	ErrPlaybackStopped = errors.New("playback stopped before reaching the goal")
)

// Playback replays a path through a Mover, one move per tick.
// Applied moves are published on MoveChan, which is closed when the
// playback ends for any reason.
type Playback struct {
	mover    Mover          // Receives the replayed moves.
	path     solver.Path    // Moves left to replay.
	delay    time.Duration  // Pause between two moves.
	stop     chan struct{}  // Closed to interrupt the replay.
	stopOnce sync.Once      // Guards stop.
	err      error          // Why the replay ended early, if it did.
	mu       sync.Mutex     // Guards err.
	MoveChan chan maze.Move // Channel for broadcasting applied moves.
	done     chan struct{}  // Closed once Start returns.
}

// NewPlayback prepares the replay of path through m.
func NewPlayback(m Mover, path solver.Path, delay time.Duration) (*Playback, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	if delay <= 0 {
		return nil, ErrInvalidDelay
	}

	return &Playback{
		mover:    m,
		path:     path,
		delay:    delay,
		stop:     make(chan struct{}),
		MoveChan: make(chan maze.Move),
		done:     make(chan struct{}),
	}, nil
}

// Start replays the path and blocks until it is finished, stopped, or ctx
// is cancelled. Anything but a complete replay leaves an error in Err:
// ErrPlaybackStopped after Stop, the context error, or the mover's error.
func (p *Playback) Start(ctx context.Context) {
	defer close(p.done)
	defer close(p.MoveChan)

	ticker := time.NewTicker(p.delay)
	defer ticker.Stop()

	for _, dir := range p.path {
		select {
		case <-ctx.Done():
			p.setErr(ctx.Err())
			return
		case <-p.stop:
			p.setErr(ErrPlaybackStopped)
			return
		case <-ticker.C:
		}

		move, err := p.mover.Move(dir)
		if err != nil {
			p.setErr(err)
			return
		}

		select {
		case p.MoveChan <- move:
		case <-ctx.Done():
			p.setErr(ctx.Err())
			return
		case <-p.stop:
			p.setErr(ErrPlaybackStopped)
			return
		}
	}
}

// Stop interrupts the replay. It is safe to call more than once, and has no
// effect on a replay that already completed.
func (p *Playback) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// Done is closed once Start has returned.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Err returns the reason the replay ended early, or nil once every move was
// applied.
func (p *Playback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Playback) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}
