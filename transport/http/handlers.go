package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/monitoring"
	"github.com/openclip/walletgate/service"
	"github.com/openclip/walletgate/siws"
)

// Client-visible error strings. Coarse on purpose; storage and provider
// internals stay in the server logs.
const (
	errMissingInputOutput = "Missing input or output"
	errInvalidSignature   = "Invalid signature"
	errChallengeExpired   = "Challenge expired"
	errChallengeUsed      = "Challenge already used"
	errCreateUser         = "Failed to create user"
	errCreateProfile      = "Failed to create profile"
	errCreateSession      = "Failed to create session"
	errCreateChallenge    = "Failed to create challenge"
	errServer             = "Server error"
)

// AuthHandlers contains the HTTP handlers for the sign-in endpoints.
type AuthHandlers struct {
	authService *service.AuthService
	log         *logrus.Logger
}

func NewAuthHandlers(authService *service.AuthService, log *logrus.Logger) *AuthHandlers {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthHandlers{authService: authService, log: log}
}

// SignInRequest is the wire shape of a sign-in attempt: the challenge the
// server handed out and the wallet's signed response.
type SignInRequest struct {
	Input  *siws.SignInInput  `json:"input"`
	Output *siws.SignInOutput `json:"output"`
}

// ChallengeRequest optionally pins the minted challenge to a wallet.
type ChallengeRequest struct {
	Address string `json:"address"`
}

// LogoutRequest carries the session token to revoke.
type LogoutRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Challenge mints a SignInInput for the wallet to sign.
func (h *AuthHandlers) Challenge(c *gin.Context) {
	var req ChallengeRequest
	// The body is optional; an empty challenge request is fine.
	_ = c.ShouldBindJSON(&req)

	input, err := h.authService.CreateChallenge(c.Request.Context(), req.Address)
	if err != nil {
		h.log.WithError(err).Error("challenge creation failed")
		respondError(c, http.StatusInternalServerError, errCreateChallenge)
		return
	}

	monitoring.ChallengesIssued.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "input": input})
}

// SignIn verifies a signed challenge and answers with an issued session.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Input == nil || req.Output == nil {
		monitoring.SignInAttempts.WithLabelValues("bad_request").Inc()
		respondError(c, http.StatusBadRequest, errMissingInputOutput)
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req.Input, req.Output)
	if err != nil {
		status, msg, outcome := mapSignInError(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).WithField("address", req.Output.Account.Address).
				Error("sign-in failed")
		}
		monitoring.SignInAttempts.WithLabelValues(outcome).Inc()
		respondError(c, status, msg)
		return
	}

	monitoring.SignInAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "session": result.Session})
}

func mapSignInError(err error) (status int, msg, outcome string) {
	switch {
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusBadRequest, errInvalidSignature, "invalid_signature"
	case errors.Is(err, core.ErrChallengeExpired):
		return http.StatusBadRequest, errChallengeExpired, "challenge_expired"
	case errors.Is(err, core.ErrChallengeUsed):
		return http.StatusBadRequest, errChallengeUsed, "challenge_used"
	case errors.Is(err, core.ErrCreateUser):
		return http.StatusInternalServerError, errCreateUser, "error"
	case errors.Is(err, core.ErrCreateProfile):
		return http.StatusInternalServerError, errCreateProfile, "error"
	case errors.Is(err, core.ErrCreateSession):
		return http.StatusInternalServerError, errCreateSession, "error"
	default:
		return http.StatusInternalServerError, errServer, "error"
	}
}

// Logout revokes the presented session token.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing access token")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.AccessToken); err != nil {
		if errors.Is(err, core.ErrInvalidToken) {
			respondError(c, http.StatusBadRequest, "Invalid token")
			return
		}
		h.log.WithError(err).Error("logout failed")
		respondError(c, http.StatusInternalServerError, errServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the identity resolved by the auth middleware.
func (h *AuthHandlers) Me(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		respondError(c, http.StatusInternalServerError, errServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": session.UserID,
		"address": session.Address,
	})
}

// Authorize reports whether the presented token passed the middleware.
func (h *AuthHandlers) Authorize(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		respondError(c, http.StatusInternalServerError, errServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"authorized": true,
		"address":    session.Address,
	})
}

// Health is the liveness probe.
func (h *AuthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
