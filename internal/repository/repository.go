package repository

import (
	"context"
	"errors"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id, name string, picture *string) error
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the interface for opaque session tokens
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string, limit int) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	Delete(ctx context.Context, postID, commentID string) (bool, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// TagRepository defines the interface for tag reference counts
type TagRepository interface {
	// Adjust adds each delta to its tag, creating missing tags, then purges
	// every tag whose count is at or below zero.
	Adjust(ctx context.Context, deltas map[string]int) error
	List(ctx context.Context, limit int) ([]*models.Tag, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Post    PostRepository
	Comment CommentRepository
	Tag     TagRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Session: NewSessionRepo(db),
		Post:    NewPostRepo(db),
		Comment: NewCommentRepo(db),
		Tag:     NewTagRepo(db),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
