package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/service"
)

const sessionContextKey = "walletgate.session"

// CORSMiddleware allows any origin and answers OPTIONS preflights with an
// empty body, matching the wire contract browser wallets expect.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware validates bearer session tokens and stashes the resolved
// session in the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "error": "Invalid authorization header"})
			return
		}

		session, err := authService.ValidateSession(c.Request.Context(), token)
		if err != nil {
			msg := "Invalid token"
			switch {
			case errors.Is(err, core.ErrTokenExpired):
				msg = "Token expired"
			case errors.Is(err, core.ErrTokenRevoked):
				msg = "Token revoked"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "error": msg})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) *core.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, ok := value.(*core.Session)
	if !ok {
		return nil
	}
	return session
}
