package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/smart-todo/internal/models"
)

// UserReadRepository handles identity lookups.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the identity registered under username or ErrNotFound.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logQuery(query, []any{username}, user.Username, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles identity inserts.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a new identity. The primary key on username makes this an atomic
// insert-if-absent: a concurrent duplicate fails with ErrAlreadyExists.
func (r *UserWriteRepository) Create(ctx context.Context, username, passwordHash string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, NOW())
		RETURNING username, password_hash, created_at
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, passwordHash)

	// password hash deliberately left out of the log
	logQuery(query, []any{username}, user.Username, err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &user, nil
}
