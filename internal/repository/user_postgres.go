package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/szahir/taskboard/internal/model"
)

// uniqueViolation is the Postgres error code for duplicate key violations.
const uniqueViolation = "23505"

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, password_hash, first_name, last_name, profile_picture_url, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.ProfilePictureURL,
	)

	created, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, profile_picture_url, created_at, updated_at
		FROM users
		WHERE email = $1`

	row := r.db.QueryRowContext(ctx, query, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, profile_picture_url, created_at, updated_at
		FROM users
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	var pictureURL sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &pictureURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	u.ProfilePictureURL = pictureURL.String
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
