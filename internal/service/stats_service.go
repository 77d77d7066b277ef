package service

import (
	"context"
	"fmt"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
)

// Resources reported by StatsService
const (
	ResourceUsers    = "users"
	ResourcePosts    = "posts"
	ResourceComments = "comments"
	ResourceTags     = "tags"
)

// statsService is the concrete implementation of StatsService
type statsService struct {
	repos *repository.Repositories
}

// newStatsService creates a new StatsService
func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

// GetCount returns the number of stored records of a resource
func (s *statsService) GetCount(ctx context.Context, resource string) (int, error) {
	var (
		count int
		err   error
	)
	switch resource {
	case ResourceUsers:
		count, err = s.repos.User.Count(ctx)
	case ResourcePosts:
		count, err = s.repos.Post.Count(ctx, models.PostFilter{})
	case ResourceComments:
		count, err = s.repos.Comment.Count(ctx)
	case ResourceTags:
		count, err = s.repos.Tag.Count(ctx)
	default:
		return 0, fmt.Errorf("%w: unknown resource %q", ErrValidation, resource)
	}
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", resource, err)
	}
	return count, nil
}
