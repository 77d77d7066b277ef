package service

import (
	"context"
	"fmt"

	"github.com/blog-publishing-api/internal/repository"
)

// tagCounter keeps tag reference counts in step with post mutations. Each
// post counts once per distinct tag name it carries.
type tagCounter struct {
	repo repository.TagRepository
}

func newTagCounter(repo repository.TagRepository) *tagCounter {
	return &tagCounter{repo: repo}
}

// Added counts the tags of a newly created post
func (c *tagCounter) Added(ctx context.Context, tags []string) error {
	return c.apply(ctx, tagDeltas(nil, tags))
}

// Changed moves counts from the old tag set to the new one
func (c *tagCounter) Changed(ctx context.Context, before, after []string) error {
	return c.apply(ctx, tagDeltas(before, after))
}

// Removed releases the tags of a deleted post
func (c *tagCounter) Removed(ctx context.Context, tags []string) error {
	return c.apply(ctx, tagDeltas(tags, nil))
}

func (c *tagCounter) apply(ctx context.Context, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}
	if err := c.repo.Adjust(ctx, deltas); err != nil {
		return fmt.Errorf("adjust tag counts: %w", err)
	}
	return nil
}

// tagDeltas returns -1 for names only in before and +1 for names only in after.
// Names present in both are left out.
func tagDeltas(before, after []string) map[string]int {
	deltas := make(map[string]int)
	for name := range tagSet(before) {
		deltas[name]--
	}
	for name := range tagSet(after) {
		deltas[name]++
	}
	for name, d := range deltas {
		if d == 0 {
			delete(deltas, name)
		}
	}
	return deltas
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
