package api

import (
	"net/http"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /api/posts/:post_id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Comment.ListComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/posts/:post_id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := h.services.Comment.CreateComment(c.Request.Context(), c.Param("post_id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/posts/:post_id/comments/:comment_id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	err := h.services.Comment.DeleteComment(c.Request.Context(), currentUser(c), c.Param("post_id"), c.Param("comment_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
