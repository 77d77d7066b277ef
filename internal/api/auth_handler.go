package api

import (
	"net/http"

	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	services *service.Services
	cfg      config.AuthConfig
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg config.AuthConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.services.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setSessionCookie(c, resp.Token, h.cfg.TokenTTL)
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setSessionCookie(c, resp.Token, h.cfg.TokenTTL)
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).Summary())
}

// ExchangeSession handles POST /api/auth/session
func (h *AuthHandler) ExchangeSession(c *gin.Context) {
	var req models.SessionExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		badRequest(c, "session_id is required")
		return
	}

	resp, err := h.services.Auth.ExchangeSession(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setSessionCookie(c, resp.Token, h.cfg.SessionTTL)
	c.JSON(http.StatusOK, resp.User)
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.services.Auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("Failed to delete session")
		}
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
