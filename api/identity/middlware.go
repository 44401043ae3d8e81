package identity

import (
	"net/http"
	"strings"

	"github.com/ThanosTheo/maze-singleplayer/game"
	dmn "github.com/ThanosTheo/maze-singleplayer/identity"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"

	// ContextPlayer is the key used to store the authenticated game.Player.
	ContextPlayer = "player"
)

func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized) // No token found in the header.
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized) // Malformed Authorization header.
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		id, username, err := dmn.FromClaims(claims)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Attach user claims to the request context for further use.
		c.Set(ContextUserClaims, claims)
		c.Set(ContextPlayer, game.Player{ID: id, Username: username})
		c.Next()
	}
}

// PlayerFrom returns the player attached by Authoriz.
func PlayerFrom(c *gin.Context) (game.Player, bool) {
	v, ok := c.Get(ContextPlayer)
	if !ok {
		return game.Player{}, false
	}
	player, ok := v.(game.Player)
	return player, ok
}
