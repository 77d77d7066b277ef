package repository

import (
	"context"
	"database/sql"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
)

// sessionRepo is the concrete implementation of SessionRepository
type sessionRepo struct {
	db *database.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *database.DB) SessionRepository {
	return &sessionRepo{db: db}
}

// Create stores a session. Re-using a provider token replaces its owner and expiry.
func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (session_token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.UserID, session.ExpiresAt.UTC(), session.CreatedAt.UTC(),
	)
	return err
}

// GetByToken retrieves a session by its opaque token
func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `SELECT session_token, user_id, expires_at, created_at FROM user_sessions WHERE session_token = $1`

	var session models.Session
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session; deleting an unknown token is not an error
func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_sessions WHERE session_token = $1", token)
	return err
}
