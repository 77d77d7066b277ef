package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
	"github.com/blog-publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	now      func() time.Time
	log      zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repos *repository.Repositories, log zerolog.Logger) *commentService {
	return &commentService{
		posts:    repos.Post,
		comments: repos.Comment,
		now:      time.Now,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// ListComments returns the newest comments of a post
func (s *commentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID, models.MaxCommentsPerPost)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment adds an anonymous comment to an existing post
func (s *commentService) CreateComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateComment(req).OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	var email *string
	if req.AuthorEmail != nil {
		if trimmed := strings.TrimSpace(*req.AuthorEmail); trimmed != "" {
			email = &trimmed
		}
	}

	comment := &models.Comment{
		ID:          newCommentID(),
		PostID:      postID,
		Content:     req.Content,
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: email,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("post_id", postID).
		Msg("Comment created")

	return comment, nil
}

// DeleteComment removes a comment that belongs to the given post
func (s *commentService) DeleteComment(ctx context.Context, admin *models.User, postID, commentID string) error {
	if err := requireAdmin(admin); err != nil {
		return err
	}

	deleted, err := s.comments.Delete(ctx, postID, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	s.log.Info().Str("comment_id", commentID).Str("post_id", postID).Msg("Comment deleted")
	return nil
}
