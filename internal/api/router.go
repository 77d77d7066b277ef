package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Store is the view of the database the router reports on
type Store interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store Store, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS))
	router.Use(timeoutMiddleware(cfg.Server.RequestTimeout))

	// Handlers
	authHandler := NewAuthHandler(services, cfg.Auth, log)
	postHandler := NewPostHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	tagHandler := NewTagHandler(services, log)

	adminOnly := requireAdmin(services.Auth, log)
	maybeUser := optionalUser(services.Auth)

	// Health check
	router.GET("/health", healthCheck(store))
	router.GET("/metrics", metricsHandler(services, store))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Blog API", "version": "1.0"})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireUser(services.Auth, log), authHandler.Me)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/session", authHandler.ExchangeSession)
		}

		posts := apiGroup.Group("/posts")
		{
			posts.GET("", maybeUser, postHandler.ListPosts)
			posts.GET("/count", postHandler.CountPosts)
			posts.GET("/:post_id", maybeUser, postHandler.GetPost)
			posts.POST("", adminOnly, postHandler.CreatePost)
			posts.PUT("/:post_id", adminOnly, postHandler.UpdatePost)
			posts.DELETE("/:post_id", adminOnly, postHandler.DeletePost)

			posts.GET("/:post_id/comments", commentHandler.ListComments)
			posts.POST("/:post_id/comments", commentHandler.CreateComment)
			posts.DELETE("/:post_id/comments/:comment_id", adminOnly, commentHandler.DeleteComment)
		}

		apiGroup.GET("/tags", tagHandler.ListTags)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := store.HealthCheck(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "blog-publishing-api",
		})
	}
}

// metricsHandler returns stored entity counts and connection pool stats
func metricsHandler(services *service.Services, store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Stats.GetCount(ctx, service.ResourceUsers)
		postsCount, _ := services.Stats.GetCount(ctx, service.ResourcePosts)
		commentsCount, _ := services.Stats.GetCount(ctx, service.ResourceComments)
		tagsCount, _ := services.Stats.GetCount(ctx, service.ResourceTags)

		stats := store.Stats()

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"posts":    postsCount,
				"comments": commentsCount,
				"tags":     tagsCount,
			},
			"pool": gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
