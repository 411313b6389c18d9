package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/openclip/walletgate/service"
)

// SetupRouter wires the gin router. Every response, panics included, goes
// out as a structured JSON envelope.
func SetupRouter(authService *service.AuthService, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(CORSMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithField("panic", recovered).Error("handler panicked")
		respondError(c, http.StatusInternalServerError, errServer)
	}))

	handlers := NewAuthHandlers(authService, log)

	auth := router.Group("/auth")
	{
		auth.POST("/siws/challenge", handlers.Challenge)
		auth.POST("/siws", handlers.SignIn)
		auth.POST("/logout", handlers.Logout)
	}

	api := router.Group("/api")
	api.Use(AuthMiddleware(authService))
	{
		api.GET("/me", handlers.Me)
		api.GET("/authorize", handlers.Authorize)
	}

	router.GET("/healthz", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
