package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// SessionCookieName carries both signed tokens and opaque session tokens
	SessionCookieName = "session_token"

	userContextKey = "current_user"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware allows credentialed requests from the configured origins only
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// timeoutMiddleware bounds the request context so store calls cannot hang
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestToken returns the session cookie, falling back to a bearer header
func requestToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// optionalUser resolves the caller when possible and never rejects the request
func optionalUser(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := auth.ResolveUser(c.Request.Context(), requestToken(c)); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// requireUser rejects requests without a resolvable user
func requireUser(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.RequireAuth(c.Request.Context(), requestToken(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// requireAdmin rejects requests from anonymous callers and non-admins
func requireAdmin(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.RequireAdmin(c.Request.Context(), requestToken(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUser returns the user resolved by one of the auth middlewares
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func setSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, token, int(maxAge.Seconds()), "/", "", true, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
}
