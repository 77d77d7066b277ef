package models

import (
	"time"
)

// Post represents a blog post
type Post struct {
	ID           string    `json:"post_id" db:"post_id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	ContentHTML  string    `json:"content_html" db:"content_html"`
	Preview      string    `json:"preview" db:"preview"`
	Tags         []string  `json:"tags" db:"-"` // Stored as JSONB in DB
	AuthorID     string    `json:"author_id" db:"author_id"`
	AuthorName   string    `json:"author_name" db:"author_name"`
	Published    bool      `json:"published" db:"published"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	CommentCount int       `json:"comment_count" db:"-"` // Computed per read
}

// PreviewLength is the number of characters kept in a derived preview
const PreviewLength = 200

// PreviewSuffix marks a truncated preview
const PreviewSuffix = "..."

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Preview   *string  `json:"preview,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Published *bool    `json:"published,omitempty"` // defaults to true
}

// UpdatePostRequest is the body of PUT /posts/:id. Nil fields are left untouched.
type UpdatePostRequest struct {
	Title     *string   `json:"title,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Preview   *string   `json:"preview,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

// PostFilter narrows post listings and counts
type PostFilter struct {
	Tag           string
	Search        string
	PublishedOnly bool
	Offset        int
	Limit         int
}

// ListPostsQuery holds the query string of GET /posts
type ListPostsQuery struct {
	Page               int    `form:"page"`
	Limit              int    `form:"limit"`
	Tag                string `form:"tag"`
	Search             string `form:"search"`
	IncludeUnpublished bool   `form:"include_unpublished"`
}
