package repository

import (
	"context"
	"database/sql"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, post_id, content, author_name, author_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.Content, comment.AuthorName,
		comment.AuthorEmail, comment.CreatedAt,
	)
	return err
}

// ListByPost returns the newest comments of a post
func (r *commentRepo) ListByPost(ctx context.Context, postID string, limit int) ([]*models.Comment, error) {
	query := `
		SELECT comment_id, post_id, content, author_name, author_email, created_at
		FROM comments WHERE post_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		var email sql.NullString
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.Content, &comment.AuthorName,
			&email, &comment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if email.Valid {
			comment.AuthorEmail = &email.String
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// CountByPost returns the number of comments on a post
func (r *commentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&count)
	return count, err
}

// Delete removes a comment only when it belongs to the given post
func (r *commentRepo) Delete(ctx context.Context, postID, commentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM comments WHERE comment_id = $1 AND post_id = $2",
		commentID, postID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteByPost removes every comment of a post
func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE post_id = $1", postID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
