package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrServiceUnavailable, http.StatusServiceUnavailable},
}

// respondError writes the status and message matching err. Unknown errors
// are logged and reported as a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			c.AbortWithStatusJSON(s.status, gin.H{"error": publicMessage(err, s.err)})
			return
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Request timed out")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "request timed out"})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// publicMessage drops everything up to and including the sentinel text, so
// "not found: post not found" becomes "post not found"
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
