package repository

import (
	"context"
	"sort"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

// Adjust applies all deltas and the purge in one transaction. Each delta is a
// single upsert, so concurrent adjustments of the same tag do not lose updates.
func (r *tagRepo) Adjust(ctx context.Context, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}

	names := make([]string, 0, len(deltas))
	for name, delta := range deltas {
		if delta != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	return r.db.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		query := `
			INSERT INTO tags (name, count) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET count = tags.count + EXCLUDED.count
		`
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, query, name, deltas[name]); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE count <= 0")
		return err
	})
}

// List returns tags in use, most used first
func (r *tagRepo) List(ctx context.Context, limit int) ([]*models.Tag, error) {
	query := `SELECT name, count FROM tags WHERE count > 0 ORDER BY count DESC, name ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.Name, &tag.Count); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// Count returns the number of tags in use
func (r *tagRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags WHERE count > 0").Scan(&count)
	return count, err
}
