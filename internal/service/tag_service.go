package service

import (
	"context"
	"fmt"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
)

type tagService struct {
	tags repository.TagRepository
}

func newTagService(tags repository.TagRepository) *tagService {
	return &tagService{tags: tags}
}

// ListTags returns the most used tags, most used first
func (s *tagService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.tags.List(ctx, models.MaxTagsListed)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
