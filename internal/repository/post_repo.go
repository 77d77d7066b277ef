package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
)

const postColumns = `post_id, title, content, content_html, preview, tags, author_id, author_name, published, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so search terms match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Create inserts a new post
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	tagsJSON, err := marshalTags(post.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.ContentHTML, post.Preview, tagsJSON,
		post.AuthorID, post.AuthorName, post.Published, post.CreatedAt, post.UpdatedAt,
	)
	return err
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Update overwrites the mutable fields of a post
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	tagsJSON, err := marshalTags(post.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts SET
			title = $2, content = $3, content_html = $4, preview = $5,
			tags = $6, published = $7, updated_at = $8
		WHERE post_id = $1
	`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.ContentHTML, post.Preview,
		tagsJSON, post.Published, post.UpdatedAt,
	)
	return err
}

// Delete removes a post and reports whether it existed
func (r *postRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE post_id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns posts matching the filter, newest first
func (r *postRepo) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	where, args := buildPostWhere(filter)

	query := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Count returns the number of posts matching the filter, ignoring paging
func (r *postRepo) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	where, args := buildPostWhere(filter)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+where, args...).Scan(&count)
	return count, err
}

// buildPostWhere renders the filter as a WHERE clause with positional args
func buildPostWhere(filter models.PostFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.PublishedOnly {
		conds = append(conds, "published = TRUE")
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("tags @> jsonb_build_array($%d::text)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%[1]d ESCAPE '\' OR content ILIKE $%[1]d ESCAPE '\' OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(name) WHERE t.name ILIKE $%[1]d ESCAPE '\'))`,
			n,
		))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var tagsJSON []byte

	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.ContentHTML, &post.Preview, &tagsJSON,
		&post.AuthorID, &post.AuthorName, &post.Published, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of post %s: %w", post.ID, err)
		}
	}
	return &post, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
