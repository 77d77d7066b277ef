package repository

import (
	"context"
	"database/sql"

	"github.com/blog-publishing-api/internal/database"
	"github.com/blog-publishing-api/internal/models"
)

const userColumns = `user_id, email, name, picture, password_hash, is_admin, created_at`

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, email, name, picture, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Picture, user.PasswordHash,
		user.IsAdmin, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// EmailExists checks if a user with the given email exists
func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

// UpdateProfile refreshes the provider-sourced name and picture
func (r *userRepo) UpdateProfile(ctx context.Context, id, name string, picture *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET name = $2, picture = $3 WHERE user_id = $1",
		id, name, picture,
	)
	return err
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var picture, passwordHash sql.NullString

	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &picture, &passwordHash,
		&user.IsAdmin, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if picture.Valid {
		user.Picture = &picture.String
	}
	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	return &user, nil
}
