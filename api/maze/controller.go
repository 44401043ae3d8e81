package mazeapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ThanosTheo/maze-singleplayer/api/identity"
	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/service"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

var errNoDirection = errors.New("one of direction, key or key_code is required")

// MazeController serves the maze sessions of the signed in player.
type MazeController struct {
	sessions i.MazeSessionManager
	runRepo  i.RunRepo
}

// NewMazeController initializes a MazeController.
func NewMazeController(sm i.MazeSessionManager, rr i.RunRepo) (*MazeController, error) {
	if sm == nil || rr == nil {
		return nil, errors.New("maze controller: missing dependency")
	}
	return &MazeController{
		sessions: sm,
		runRepo:  rr,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.newMaze)
		mazes.GET("/:ID", mc.mazeInfo)
		mazes.DELETE("/:ID", mc.closeMaze)
		mazes.POST("/:ID/moves", mc.move)
		mazes.POST("/:ID/regenerate", mc.regenerate)
		mazes.GET("/:ID/solution", mc.solution)
		mazes.GET("/:ID/playback", mc.playback)
	}
	route.GET("/runs", mc.runs)
}

// newMaze starts a maze session, replacing the player's previous one.
func (mc *MazeController) newMaze(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request NewMazeRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	st, err := mc.sessions.NewSession(ctx.Request.Context(), player, request.Size)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newMazeResponse(st))
}

// mazeInfo returns the session state, or its ASCII drawing with ?format=text.
func (mc *MazeController) mazeInfo(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	st, err := mc.sessions.Session(player.ID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if ctx.Query("format") == "text" {
		marks := map[maze.Cell]rune{st.Goal: 'G', st.Position: '@'}
		ctx.String(http.StatusOK, maze.Render(st.Grid, marks))
		return
	}
	ctx.JSON(http.StatusOK, newMazeResponse(st))
}

// move applies one move of the player.
func (mc *MazeController) move(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir, err := parseMove(request)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := mc.sessions.Move(ctx.Request.Context(), player.ID, sessionID, dir)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newMoveResponse(res.Move, res.Moves, res.Finished))
}

// regenerate replaces the maze of the session.
func (mc *MazeController) regenerate(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	st, err := mc.sessions.Regenerate(ctx.Request.Context(), player.ID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newMazeResponse(st))
}

// solution returns the optimal path from the start cell.
func (mc *MazeController) solution(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	path, err := mc.sessions.Solution(player.ID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &SolutionResponse{Path: path, Length: len(path)})
}

// playback walks the agent to the goal and streams every move as a
// server-sent "move" event, ending with "done" or "error".
func (mc *MazeController) playback(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	st, err := mc.sessions.Session(player.ID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	pb, err := mc.sessions.Playback(ctx.Request.Context(), player.ID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	defer pb.Stop()

	moves := st.Moves
	ctx.Stream(func(w io.Writer) bool {
		move, ok := <-pb.MoveChan
		if ok {
			moves++
			ctx.SSEvent("move", newMoveResponse(move, moves, move.To == st.Goal))
			return true
		}

		<-pb.Done()
		if err := pb.Err(); err != nil {
			ctx.SSEvent("error", gin.H{"error": err.Error()})
			return false
		}
		if st, err := mc.sessions.Session(player.ID, sessionID); err == nil {
			ctx.SSEvent("done", newMazeResponse(st))
		}
		return false
	})
}

// closeMaze ends the session.
func (mc *MazeController) closeMaze(ctx *gin.Context) {
	player, sessionID, ok := mc.target(ctx)
	if !ok {
		return
	}

	if err := mc.sessions.Close(player.ID, sessionID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// runs lists the player's finished runs, newest first.
func (mc *MazeController) runs(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	limit := int64(defaultRunsLimit)
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxRunsLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	runs, err := mc.runRepo.ByPlayer(ctx.Request.Context(), player.ID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while listing runs"})
		return
	}
	ctx.JSON(http.StatusOK, newRunResponses(runs))
}

// target resolves the signed in player and the :ID parameter, answering
// the request itself when either is missing.
func (mc *MazeController) target(ctx *gin.Context) (game.Player, uuid.UUID, bool) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return game.Player{}, uuid.Nil, false
	}

	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return game.Player{}, uuid.Nil, false
	}
	return player, ID, true
}

func parseMove(request MoveRequest) (maze.Direction, error) {
	switch {
	case request.Direction != "":
		return maze.ParseDirection(request.Direction)
	case request.Key != "":
		if dir, ok := game.DirectionForKey(request.Key); ok {
			return dir, nil
		}
		return 0, maze.ErrUnknownDirection
	case request.KeyCode != 0:
		if dir, ok := game.DirectionForKeyCode(request.KeyCode); ok {
			return dir, nil
		}
		return 0, maze.ErrUnknownDirection
	default:
		return 0, errNoDirection
	}
}

func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSize):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidMove):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAlreadyFinished), errors.Is(err, service.ErrPlaybackRunning):
		status = http.StatusConflict
	case errors.Is(err, service.ErrShuttingDown):
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
