package api

import (
	"net/http"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostHandler handles post endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// ListPosts handles GET /api/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	var query models.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	posts, err := h.services.Post.ListPosts(c.Request.Context(), query, currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CountPosts handles GET /api/posts/count
func (h *PostHandler) CountPosts(c *gin.Context) {
	count, err := h.services.Post.CountPosts(c.Request.Context(), c.Query("tag"), c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetPost handles GET /api/posts/:post_id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.services.Post.GetPost(c.Request.Context(), c.Param("post_id"), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /api/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := h.services.Post.CreatePost(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /api/posts/:post_id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := h.services.Post.UpdatePost(c.Request.Context(), currentUser(c), c.Param("post_id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:post_id
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.services.Post.DeletePost(c.Request.Context(), currentUser(c), c.Param("post_id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
