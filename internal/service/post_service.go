package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-publishing-api/internal/markdown"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
	"github.com/blog-publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

// Pagination defaults for post listings
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// postService is the concrete implementation of PostService
type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	tags     *tagCounter
	renderer *markdown.Renderer
	now      func() time.Time
	log      zerolog.Logger
}

// newPostService creates a new PostService
func newPostService(repos *repository.Repositories, tags *tagCounter, renderer *markdown.Renderer, log zerolog.Logger) *postService {
	return &postService{
		posts:    repos.Post,
		comments: repos.Comment,
		tags:     tags,
		renderer: renderer,
		now:      time.Now,
		log:      log.With().Str("service", "post").Logger(),
	}
}

// ListPosts returns one page of posts, newest first. Unpublished posts are
// included only when asked for by an admin.
func (s *postService) ListPosts(ctx context.Context, query models.ListPostsQuery, requester *models.User) ([]*models.Post, error) {
	page, limit, err := normalizePage(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	filter := models.PostFilter{
		Tag:           query.Tag,
		Search:        query.Search,
		PublishedOnly: !(query.IncludeUnpublished && isAdmin(requester)),
		Offset:        (page - 1) * limit,
		Limit:         limit,
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	for _, post := range posts {
		if err := s.attachCommentCount(ctx, post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// CountPosts counts published posts matching the filters
func (s *postService) CountPosts(ctx context.Context, tag, search string) (int, error) {
	count, err := s.posts.Count(ctx, models.PostFilter{
		Tag:           tag,
		Search:        search,
		PublishedOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// GetPost returns a post. Unpublished posts look missing to non-admins.
func (s *postService) GetPost(ctx context.Context, id string, requester *models.User) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil || (!post.Published && !isAdmin(requester)) {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	if err := s.attachCommentCount(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost stores a new post authored by an admin
func (s *postService) CreatePost(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error) {
	if err := requireAdmin(author); err != nil {
		return nil, err
	}
	if err := validation.ValidateCreatePost(req).OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:          newPostID(),
		Title:       req.Title,
		Content:     req.Content,
		ContentHTML: s.renderer.Render(req.Content),
		Preview:     choosePreview(req.Preview, req.Content),
		Tags:        tags,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := s.tags.Added(ctx, post.Tags); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("post_id", post.ID).
		Str("author_id", author.ID).
		Bool("published", post.Published).
		Msg("Post created")

	return post, nil
}

// UpdatePost applies the supplied fields to an existing post
func (s *postService) UpdatePost(ctx context.Context, admin *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := validation.ValidateUpdatePost(req).OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	previousTags := post.Tags

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
		post.ContentHTML = s.renderer.Render(post.Content)
	}
	// A new explicit preview wins; otherwise new content re-derives it.
	if req.Preview != nil || req.Content != nil {
		post.Preview = choosePreview(req.Preview, post.Content)
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	post.UpdatedAt = s.now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if req.Tags != nil {
		if err := s.tags.Changed(ctx, previousTags, post.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.attachCommentCount(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Msg("Post updated")
	return post, nil
}

// DeletePost removes a post together with its comments and releases its tags
func (s *postService) DeletePost(ctx context.Context, admin *models.User, id string) error {
	if err := requireAdmin(admin); err != nil {
		return err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}

	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}

	removed, err := s.comments.DeleteByPost(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := s.tags.Removed(ctx, post.Tags); err != nil {
		return err
	}

	s.log.Info().
		Str("post_id", id).
		Int64("comments_removed", removed).
		Msg("Post deleted")

	return nil
}

func (s *postService) attachCommentCount(ctx context.Context, post *models.Post) error {
	count, err := s.comments.CountByPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	post.CommentCount = count
	return nil
}

// normalizePage applies pagination defaults and bounds
func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	}
	if limit < 1 || limit > MaxLimit {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxLimit)
	}
	return page, limit, nil
}

// choosePreview returns the explicit preview when one is given, otherwise
// a preview derived from content. An explicit empty preview is treated as
// absent and never stored as "".
func choosePreview(explicit *string, content string) string {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	return derivePreview(content)
}

// derivePreview keeps the first PreviewLength characters of content and marks
// the cut when anything was dropped
func derivePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= models.PreviewLength {
		return content
	}
	return string(runes[:models.PreviewLength]) + models.PreviewSuffix
}

func isAdmin(user *models.User) bool {
	return user != nil && user.IsAdmin
}

func requireAdmin(user *models.User) error {
	if user == nil {
		return ErrUnauthorized
	}
	if !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}
