package service

import (
	"context"

	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/markdown"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// AuthService defines the interface for credentials and sessions
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// ResolveUser never fails; an unusable token resolves to nil.
	ResolveUser(ctx context.Context, token string) *models.User
	RequireAuth(ctx context.Context, token string) (*models.User, error)
	RequireAdmin(ctx context.Context, token string) (*models.User, error)
	ExchangeSession(ctx context.Context, sessionID string) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

// PostService defines the interface for post operations
type PostService interface {
	ListPosts(ctx context.Context, query models.ListPostsQuery, requester *models.User) ([]*models.Post, error)
	CountPosts(ctx context.Context, tag, search string) (int, error)
	GetPost(ctx context.Context, id string, requester *models.User) (*models.Post, error)
	CreatePost(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, admin *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, admin *models.User, id string) error
}

// CommentService defines the interface for comment operations
type CommentService interface {
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	CreateComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, admin *models.User, postID, commentID string) error
}

// TagService defines the interface for tag listings
type TagService interface {
	ListTags(ctx context.Context) ([]*models.Tag, error)
}

// StatsService reports entity counts for the metrics endpoint
type StatsService interface {
	GetCount(ctx context.Context, resource string) (int, error)
}

// SessionExchanger resolves identity provider session ids
type SessionExchanger interface {
	Exchange(ctx context.Context, sessionID string) (*auth.ProviderSession, error)
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	Post    PostService
	Comment CommentService
	Tag     TagService
	Stats   StatsService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, provider SessionExchanger, cfg *config.Config, log zerolog.Logger) *Services {
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	tags := newTagCounter(repos.Tag)

	return &Services{
		Auth:    newAuthService(repos, tokens, provider, cfg.Auth.SessionTTL, log),
		Post:    newPostService(repos, tags, markdown.NewRenderer(), log),
		Comment: newCommentService(repos, log),
		Tag:     newTagService(repos.Tag),
		Stats:   newStatsService(repos),
	}
}
