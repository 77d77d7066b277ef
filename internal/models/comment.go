package models

import (
	"time"
)

// Comment represents an anonymous comment on a post
type Comment struct {
	ID          string    `json:"comment_id" db:"comment_id"`
	PostID      string    `json:"post_id" db:"post_id"`
	Content     string    `json:"content" db:"content"`
	AuthorName  string    `json:"author_name" db:"author_name"`
	AuthorEmail *string   `json:"-" db:"author_email"` // free text, never exposed
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentRequest is the body of POST /posts/:id/comments
type CreateCommentRequest struct {
	Content     string  `json:"content"`
	AuthorName  string  `json:"author_name"`
	AuthorEmail *string `json:"author_email,omitempty"`
}

// MaxCommentsPerPost caps a comment listing
const MaxCommentsPerPost = 100
