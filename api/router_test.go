package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/api/i"
	"github.com/ThanosTheo/maze-singleplayer/api/identity"
	mazeapi "github.com/ThanosTheo/maze-singleplayer/api/maze"
	"github.com/ThanosTheo/maze-singleplayer/game"
	dmn "github.com/ThanosTheo/maze-singleplayer/identity"
	"github.com/ThanosTheo/maze-singleplayer/infrastruture/token"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "correct-Horse-battery-9-staple"

type nopLogger struct{}

func (nopLogger) Debug(string)   {}
func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}

type nopMetrics struct{}

func (nopMetrics) MazeGenerated(int, time.Duration)      {}
func (nopMetrics) PathSearched(int, bool, time.Duration) {}
func (nopMetrics) MoveApplied(bool)                      {}
func (nopMetrics) RunFinished(bool)                      {}
func (nopMetrics) SessionsActive(int)                    {}

type memoryStore struct {
	mu     sync.Mutex
	users  map[string]*dmn.User
	runs   []*game.Run
	scores []game.LeaderboardEntry
}

func (s *memoryStore) Save(_ context.Context, u *dmn.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
	return nil
}

func (s *memoryStore) ByID(context.Context, uuid.UUID) (*dmn.User, error) {
	return nil, dmn.ErrUserNotFound
}

func (s *memoryStore) ByUsername(_ context.Context, username string) (*dmn.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, dmn.ErrUserNotFound
}

type runStore struct{ *memoryStore }

func (s runStore) Save(_ context.Context, run *game.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s runStore) ByPlayer(_ context.Context, playerID uuid.UUID, limit int64) ([]*game.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := make([]*game.Run, 0)
	for _, run := range s.runs {
		if run.PlayerID == playerID && int64(len(runs)) < limit {
			runs = append(runs, run)
		}
	}
	return runs, nil
}

type boardStore struct{ *memoryStore }

func (s boardStore) Submit(_ context.Context, _ int, username string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, game.LeaderboardEntry{Rank: len(s.scores) + 1, Username: username, Score: score})
	return nil
}

func (s boardStore) Top(context.Context, int, int64) ([]game.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.LeaderboardEntry(nil), s.scores...), nil
}

func (s boardStore) Count(context.Context, int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.scores)), nil
}

type testServer struct {
	*httptest.Server
	manager *service.MazeSessionManager
	store   *memoryStore
}

func newTestServer(t *testing.T, delay time.Duration) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memoryStore{users: make(map[string]*dmn.User)}
	tokenizer := token.NewJwtService("test-secret", "maze-test")

	manager, err := service.NewMazeSessionManager(&service.Config{
		Generator:     maze.NewGenerator(rand.NewSource(3)),
		RunRepo:       runStore{store},
		Scoreboard:    boardStore{store},
		Logger:        nopLogger{},
		Metrics:       nopMetrics{},
		DefaultSize:   6,
		MaxSize:       20,
		PlaybackDelay: delay,
	})
	require.NoError(t, err)
	t.Cleanup(manager.StopAll)

	mazeController, err := mazeapi.NewMazeController(manager, runStore{store})
	require.NoError(t, err)
	leaderboardController, err := mazeapi.NewLeaderboardController(boardStore{store})
	require.NoError(t, err)

	router := NewRouter(Config{
		BaseURL: "/api",
		Controllers: []i.Controller{
			identity.NewIdentityServer(service.NewAuthService(store, tokenizer, time.Hour)),
			mazeController,
			leaderboardController,
		},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
		MetricsHandler:          promhttp.Handler(),
	})

	srv := httptest.NewServer(router.Engine())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, manager: manager, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (ts *testServer) signIn(t *testing.T, username string) string {
	t.Helper()
	creds := identity.AuthRequest{Username: username, Password: password}

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var auth identity.AuthResponse
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestIdentityRoutes(t *testing.T) {
	ts := newTestServer(t, time.Millisecond)
	bearer := ts.signIn(t, "ariadne")
	assert.NotEmpty(t, bearer)

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", identity.AuthRequest{Username: "ariadne", Password: password})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", identity.AuthRequest{Username: "icarus", Password: "wings"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", identity.AuthRequest{Username: "ariadne", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/mazes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, "/api/v1/mazes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMazeRoutes(t *testing.T) {
	ts := newTestServer(t, time.Millisecond)
	bearer := ts.signIn(t, "theseus")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, mazeapi.NewMazeRequest{Size: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created mazeapi.MazeResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 5, created.Size)
	assert.Len(t, created.Walls, 5)
	assert.Equal(t, maze.Cell{Row: 4, Col: 4}, created.Goal)
	mazePath := "/api/v1/mazes/" + created.ID.String()

	resp, body = ts.do(t, http.MethodGet, mazePath+"?format=text", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "@")

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, mazeapi.NewMazeRequest{Size: 500})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A rejected size keeps the current session.
	resp, _ = ts.do(t, http.MethodGet, mazePath, bearer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, mazePath+"/moves", bearer, mazeapi.MoveRequest{Direction: "sideways"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, mazePath+"/moves", bearer, mazeapi.MoveRequest{Key: "ArrowUp"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "row 0 has no cell above")

	resp, body = ts.do(t, http.MethodGet, mazePath+"/solution", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var solution mazeapi.SolutionResponse
	require.NoError(t, json.Unmarshal(body, &solution))
	require.Equal(t, len(solution.Path), solution.Length)

	var last mazeapi.MoveResponse
	for _, dir := range solution.Path {
		resp, body = ts.do(t, http.MethodPost, mazePath+"/moves", bearer, mazeapi.MoveRequest{Direction: dir.String()})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		require.NoError(t, json.Unmarshal(body, &last))
	}
	assert.True(t, last.Finished)
	assert.Equal(t, created.Goal, last.To)

	resp, _ = ts.do(t, http.MethodPost, mazePath+"/moves", bearer, mazeapi.MoveRequest{KeyCode: 38})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	ts.manager.Wait()
	resp, body = ts.do(t, http.MethodGet, "/api/v1/leaderboard/5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var board mazeapi.LeaderboardResponse
	require.NoError(t, json.Unmarshal(body, &board))
	assert.Equal(t, 5, board.Size)
	assert.Equal(t, int64(1), board.Total)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "theseus", board.Entries[0].Username)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/runs?limit=5", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []mazeapi.RunResponse
	require.NoError(t, json.Unmarshal(body, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, len(solution.Path), runs[0].Moves)
	assert.Equal(t, len(solution.Path), runs[0].OptimalMoves)
	assert.Equal(t, 1.0, runs[0].Efficiency, "the solution is the optimal walk")

	resp, body = ts.do(t, http.MethodPost, mazePath+"/regenerate", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fresh mazeapi.MazeResponse
	require.NoError(t, json.Unmarshal(body, &fresh))
	assert.False(t, fresh.Finished)
	assert.Equal(t, 0, fresh.Moves)

	other := ts.signIn(t, "minos")
	resp, _ = ts.do(t, http.MethodGet, mazePath, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodDelete, mazePath, bearer, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, mazePath, bearer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/mazes/not-a-uuid", bearer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaybackStream(t *testing.T) {
	ts := newTestServer(t, time.Millisecond)
	bearer := ts.signIn(t, "daedalus")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created mazeapi.MazeResponse
	require.NoError(t, json.Unmarshal(body, &created))
	mazePath := "/api/v1/mazes/" + created.ID.String()
	assert.Equal(t, 6, created.Size)

	resp, body = ts.do(t, http.MethodGet, mazePath+"/solution", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var solution mazeapi.SolutionResponse
	require.NoError(t, json.Unmarshal(body, &solution))

	resp, body = ts.do(t, http.MethodGet, mazePath+"/playback", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stream := string(body)
	assert.Equal(t, solution.Length, strings.Count(stream, "event:move"))
	assert.Contains(t, stream, "event:done")

	resp, _ = ts.do(t, http.MethodGet, mazePath+"/playback", bearer, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	ts.manager.Wait()
	resp, body = ts.do(t, http.MethodGet, "/api/v1/leaderboard/6", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "daedalus")
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, time.Millisecond)
	resp, body := ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPlaybackStreamInterrupted(t *testing.T) {
	ts := newTestServer(t, 20*time.Millisecond)
	bearer := ts.signIn(t, "pasiphae")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, mazeapi.NewMazeRequest{Size: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created mazeapi.MazeResponse
	require.NoError(t, json.Unmarshal(body, &created))
	mazePath := "/api/v1/mazes/" + created.ID.String()

	req, err := http.NewRequest(http.MethodGet, ts.URL+mazePath+"/playback", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bearer)
	stream, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)

	scanner := bufio.NewScanner(stream.Body)
	var events []string
	regenerated := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "event:") {
			continue
		}
		events = append(events, strings.TrimPrefix(line, "event:"))
		if !regenerated {
			regenerated = true
			resp, _ := ts.do(t, http.MethodPost, mazePath+"/regenerate", bearer, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
	}

	require.NotEmpty(t, events)
	assert.Equal(t, "move", events[0])
	assert.Equal(t, "error", events[len(events)-1])
	assert.NotContains(t, events, "done")
}

func TestRunStopsSessionsBeforeShutdown(t *testing.T) {
	ts := newTestServer(t, time.Hour)
	bearer := ts.signIn(t, "minotaur")
	resp, body := ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created mazeapi.MazeResponse
	require.NoError(t, json.Unmarshal(body, &created))

	player, err := ts.store.ByUsername(context.Background(), "minotaur")
	require.NoError(t, err)
	pb, err := ts.manager.Playback(context.Background(), player.ID, created.ID)
	require.NoError(t, err)

	router := NewRouter(Config{
		Addr:           "127.0.0.1:0",
		BaseURL:        "/api",
		BeforeShutdown: ts.manager.StopAll,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, router.Run(ctx))

	select {
	case <-pb.Done():
	case <-time.After(time.Second):
		t.Fatal("playback still running after shutdown")
	}
	assert.ErrorIs(t, pb.Err(), game.ErrPlaybackStopped)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/mazes", bearer, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
