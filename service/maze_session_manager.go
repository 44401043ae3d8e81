package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/ThanosTheo/maze-singleplayer/solver"
	"github.com/google/uuid"
)

const (
	defaultMazeSize    = 35
	defaultMaxMazeSize = 60
	minMazeSize        = 2

	recordTimeout = 5 * time.Second
)

var (
	ErrSessionNotFound = errors.New("maze session not found")
	ErrAlreadyFinished = errors.New("maze already solved")
	ErrPlaybackRunning = errors.New("playback already running")
	ErrInvalidSize     = errors.New("unsupported maze size")
	ErrNoPath          = errors.New("goal is unreachable")
	ErrShuttingDown    = errors.New("maze sessions are shutting down")
)

var _ i.MazeSessionManager = &MazeSessionManager{}

// mazeSession is one player's walk through one maze. Every field is guarded
// by mu.
type mazeSession struct {
	id        uuid.UUID
	player    game.Player
	agent     *game.Agent
	solution  solver.Path // From the start cell, computed on first use.
	startedAt time.Time
	finished  bool
	autopilot bool
	closed    bool
	playback  *game.Playback
	epoch     int // Bumped whenever the grid changes or the session closes.
	mu        sync.Mutex
}

func (s *mazeSession) state() game.State {
	return game.State{
		SessionID: s.id,
		Grid:      s.agent.Grid(),
		Position:  s.agent.Position(),
		Goal:      s.agent.Goal(),
		Moves:     s.agent.Moves(),
		Finished:  s.finished,
		Autopilot: s.autopilot,
		StartedAt: s.startedAt,
	}
}

func (s *mazeSession) playbackRunning() bool {
	if s.playback == nil {
		return false
	}
	select {
	case <-s.playback.Done():
		return false
	default:
		return true
	}
}

// invalidate stops any running playback and makes its pending moves stale.
func (s *mazeSession) invalidate() {
	if s.playback != nil {
		s.playback.Stop()
		s.playback = nil
	}
	s.epoch++
}

// playbackMover feeds playback moves into the session they were planned
// for. Moves planned on an older grid, or for a closed session, are refused
// with game.ErrPlaybackStopped.
type playbackMover struct {
	manager *MazeSessionManager
	session *mazeSession
	epoch   int
}

func (p *playbackMover) Move(dir maze.Direction) (maze.Move, error) {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()

	if p.session.closed || p.epoch != p.session.epoch {
		return maze.Move{}, game.ErrPlaybackStopped
	}
	res, err := p.manager.stepLocked(p.session, dir, true)
	return res.Move, err
}

type MazeSessionManager struct {
	sessions        map[uuid.UUID]*mazeSession
	playerToSession map[uuid.UUID]uuid.UUID
	generator       *maze.Generator
	runRepo         i.RunRepo
	scoreboard      i.Scoreboard
	logger          i.Logger
	metrics         i.MazeMetrics
	defaultSize     int
	maxSize         int
	playbackDelay   time.Duration
	pending         sync.WaitGroup // Run records still being written.
	closed          bool           // Set by StopAll; no session may start afterwards.
	sync.RWMutex
}

type Config struct {
	Generator     *maze.Generator
	RunRepo       i.RunRepo
	Scoreboard    i.Scoreboard
	Logger        i.Logger
	Metrics       i.MazeMetrics
	DefaultSize   int
	MaxSize       int
	PlaybackDelay time.Duration
}

func NewMazeSessionManager(c *Config) (*MazeSessionManager, error) {
	if c.Generator == nil || c.RunRepo == nil || c.Scoreboard == nil || c.Logger == nil || c.Metrics == nil {
		return nil, errors.New("maze session manager: missing dependency")
	}

	m := &MazeSessionManager{
		sessions:        make(map[uuid.UUID]*mazeSession),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
		generator:       c.Generator,
		runRepo:         c.RunRepo,
		scoreboard:      c.Scoreboard,
		logger:          c.Logger,
		metrics:         c.Metrics,
		defaultSize:     c.DefaultSize,
		maxSize:         c.MaxSize,
		playbackDelay:   c.PlaybackDelay,
	}
	if m.maxSize <= 0 {
		m.maxSize = defaultMaxMazeSize
	}
	if m.maxSize > maze.MaxSize {
		m.maxSize = maze.MaxSize
	}
	if m.defaultSize <= 0 {
		m.defaultSize = defaultMazeSize
	}
	if m.defaultSize < minMazeSize || m.defaultSize > m.maxSize {
		return nil, fmt.Errorf("%w: default size %d", ErrInvalidSize, m.defaultSize)
	}
	if m.playbackDelay <= 0 {
		m.playbackDelay = game.DefaultPlaybackDelay
	}

	return m, nil
}

func (m *MazeSessionManager) NewSession(_ context.Context, player game.Player, size int) (game.State, error) {
	if size == 0 {
		size = m.defaultSize
	}
	if size < minMazeSize || size > m.maxSize {
		return game.State{}, fmt.Errorf("%w: %d (between %d and %d)", ErrInvalidSize, size, minMazeSize, m.maxSize)
	}

	grid, err := m.generate(size)
	if err != nil {
		return game.State{}, err
	}

	agent, err := game.NewAgent(grid, maze.Cell{}, goalOf(size))
	if err != nil {
		return game.State{}, err
	}

	s := &mazeSession{
		player:    player,
		agent:     agent,
		startedAt: time.Now().UTC(),
	}

	m.Lock()
	if m.closed {
		m.Unlock()
		return game.State{}, ErrShuttingDown
	}
	if oldID, ok := m.playerToSession[player.ID]; ok {
		m.closeLocked(oldID)
	}
	s.id = uuid.New()
	for {
		if _, ok := m.sessions[s.id]; !ok {
			break
		}
		s.id = uuid.New()
	}
	m.sessions[s.id] = s
	m.playerToSession[player.ID] = s.id
	active := len(m.sessions)
	m.Unlock()

	m.metrics.SessionsActive(active)
	m.logger.Info(fmt.Sprintf("started %dx%d maze %s for player %s", size, size, s.id, player.ID))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

func (m *MazeSessionManager) Session(playerID, sessionID uuid.UUID) (game.State, error) {
	s, err := m.session(playerID, sessionID)
	if err != nil {
		return game.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

func (m *MazeSessionManager) Move(_ context.Context, playerID, sessionID uuid.UUID, dir maze.Direction) (game.MoveResult, error) {
	s, err := m.session(playerID, sessionID)
	if err != nil {
		return game.MoveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return game.MoveResult{}, ErrSessionNotFound
	}
	if s.playbackRunning() {
		return game.MoveResult{}, ErrPlaybackRunning
	}
	return m.stepLocked(s, dir, false)
}

func (m *MazeSessionManager) Regenerate(_ context.Context, playerID, sessionID uuid.UUID) (game.State, error) {
	s, err := m.session(playerID, sessionID)
	if err != nil {
		return game.State{}, err
	}

	s.mu.Lock()
	size := s.agent.Grid().Size()
	s.mu.Unlock()

	grid, err := m.generate(size)
	if err != nil {
		return game.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return game.State{}, ErrSessionNotFound
	}

	s.invalidate()
	if err := s.agent.Reset(grid); err != nil {
		return game.State{}, err
	}
	s.solution = nil
	s.finished = false
	s.autopilot = false
	s.startedAt = time.Now().UTC()

	m.logger.Info(fmt.Sprintf("regenerated maze %s", s.id))
	return s.state(), nil
}

func (m *MazeSessionManager) Solution(playerID, sessionID uuid.UUID) (solver.Path, error) {
	s, err := m.session(playerID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := m.solutionLocked(s)
	if err != nil {
		return nil, err
	}
	return append(solver.Path(nil), path...), nil
}

func (m *MazeSessionManager) Playback(ctx context.Context, playerID, sessionID uuid.UUID) (*game.Playback, error) {
	s, err := m.session(playerID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}
	if s.finished {
		return nil, ErrAlreadyFinished
	}
	if s.playbackRunning() {
		return nil, ErrPlaybackRunning
	}

	path, err := m.search(s.agent.Grid(), s.agent.Position(), s.agent.Goal())
	if err != nil {
		return nil, err
	}

	mover := &playbackMover{manager: m, session: s, epoch: s.epoch}
	pb, err := game.NewPlayback(mover, path, m.playbackDelay)
	if err != nil {
		return nil, err
	}
	s.playback = pb
	go pb.Start(ctx)

	m.logger.Info(fmt.Sprintf("playing back %d moves in maze %s", len(path), s.id))
	return pb, nil
}

func (m *MazeSessionManager) Close(playerID, sessionID uuid.UUID) error {
	if _, err := m.session(playerID, sessionID); err != nil {
		return err
	}

	m.Lock()
	m.closeLocked(sessionID)
	active := len(m.sessions)
	m.Unlock()

	m.metrics.SessionsActive(active)
	m.logger.Info(fmt.Sprintf("closed maze %s", sessionID))
	return nil
}

// StopAll closes every session, which stops their playbacks, and waits for
// pending run records. Sessions cannot be started afterwards. It is safe to
// call more than once.
func (m *MazeSessionManager) StopAll() {
	m.Lock()
	m.closed = true
	for id := range m.sessions {
		m.closeLocked(id)
	}
	m.Unlock()

	m.metrics.SessionsActive(0)
	m.pending.Wait()
}

// Wait blocks until every finished run has been recorded.
func (m *MazeSessionManager) Wait() {
	m.pending.Wait()
}

func (m *MazeSessionManager) session(playerID, sessionID uuid.UUID) (*mazeSession, error) {
	m.RLock()
	defer m.RUnlock()

	if m.closed {
		return nil, ErrShuttingDown
	}
	s, ok := m.sessions[sessionID]
	if !ok || s.player.ID != playerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// closeLocked must be called with m locked.
func (m *MazeSessionManager) closeLocked(sessionID uuid.UUID) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	s.mu.Lock()
	s.invalidate()
	s.closed = true
	s.mu.Unlock()

	if m.playerToSession[s.player.ID] == sessionID {
		delete(m.playerToSession, s.player.ID)
	}
	delete(m.sessions, sessionID)
}

// stepLocked must be called with s.mu held.
func (m *MazeSessionManager) stepLocked(s *mazeSession, dir maze.Direction, autopilot bool) (game.MoveResult, error) {
	if s.finished {
		return game.MoveResult{}, ErrAlreadyFinished
	}

	move, err := s.agent.Move(dir)
	m.metrics.MoveApplied(err == nil)
	if err != nil {
		return game.MoveResult{}, err
	}
	if autopilot {
		s.autopilot = true
	}

	res := game.MoveResult{Move: move, Moves: s.agent.Moves()}
	if s.agent.AtGoal() {
		s.finished = true
		res.Finished = true
		m.finishLocked(s)
	}
	return res, nil
}

func (m *MazeSessionManager) finishLocked(s *mazeSession) {
	finishedAt := time.Now().UTC()
	run := &game.Run{
		ID:         uuid.New(),
		PlayerID:   s.player.ID,
		Username:   s.player.Username,
		Size:       s.agent.Grid().Size(),
		Moves:      s.agent.Moves(),
		Autopilot:  s.autopilot,
		Duration:   finishedAt.Sub(s.startedAt),
		StartedAt:  s.startedAt,
		FinishedAt: finishedAt,
	}
	if path, err := m.solutionLocked(s); err == nil {
		run.OptimalMoves = len(path)
	}

	m.metrics.RunFinished(run.Autopilot)
	m.logger.Info(fmt.Sprintf("player %s solved maze %s in %d moves", s.player.ID, s.id, run.Moves))

	m.pending.Add(1)
	go m.record(run)
}

func (m *MazeSessionManager) record(run *game.Run) {
	defer m.pending.Done()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := m.runRepo.Save(ctx, run); err != nil {
		m.logger.Error(fmt.Sprintf("saving run %s: %s", run.ID, err))
	}

	if run.Autopilot {
		return
	}
	if err := m.scoreboard.Submit(ctx, run.Size, run.Username, run.Score()); err != nil {
		m.logger.Error(fmt.Sprintf("submitting score of %s: %s", run.Username, err))
	}
}

// solutionLocked must be called with s.mu held.
func (m *MazeSessionManager) solutionLocked(s *mazeSession) (solver.Path, error) {
	if s.solution != nil {
		return s.solution, nil
	}

	path, err := m.search(s.agent.Grid(), s.agent.Start(), s.agent.Goal())
	if err != nil {
		return nil, err
	}
	s.solution = path
	return path, nil
}

func (m *MazeSessionManager) search(g *maze.Grid, from, to maze.Cell) (solver.Path, error) {
	started := time.Now()
	path, found, err := solver.FindPath(g, from, to)
	m.metrics.PathSearched(g.Size(), found, time.Since(started))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoPath
	}
	return path, nil
}

func (m *MazeSessionManager) generate(size int) (*maze.Grid, error) {
	started := time.Now()
	grid, err := m.generator.Generate(size)
	if err != nil {
		m.logger.Error(fmt.Sprintf("generating %dx%d maze: %s", size, size, err))
		return nil, err
	}
	m.metrics.MazeGenerated(size, time.Since(started))
	return grid, nil
}

func goalOf(size int) maze.Cell {
	return maze.Cell{Row: size - 1, Col: size - 1}
}
