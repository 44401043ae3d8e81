package mazeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/gin-gonic/gin"
)

// LeaderboardController serves the best runs per maze size.
type LeaderboardController struct {
	board i.Scoreboard
}

// NewLeaderboardController initializes a LeaderboardController.
func NewLeaderboardController(board i.Scoreboard) (*LeaderboardController, error) {
	if board == nil {
		return nil, errors.New("leaderboard controller: missing scoreboard")
	}
	return &LeaderboardController{board: board}, nil
}

// RegisterPublic registers public routes.
func (lc *LeaderboardController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard/:size", lc.top)
}

// RegisterProtected registers protected routes.
func (lc *LeaderboardController) RegisterProtected(route *gin.RouterGroup) {}

// top returns the best entries of one board; ?n= caps their number.
func (lc *LeaderboardController) top(ctx *gin.Context) {
	size, err := strconv.Atoi(ctx.Params.ByName("size"))
	if err != nil || size <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze size"})
		return
	}

	var n int64
	if raw := ctx.Query("n"); raw != "" {
		n, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
	}

	entries, err := lc.board.Top(ctx.Request.Context(), size, n)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}
	total, err := lc.board.Count(ctx.Request.Context(), size)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, &LeaderboardResponse{Size: size, Total: total, Entries: entries})
}
