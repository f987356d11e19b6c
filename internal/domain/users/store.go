package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, user *User) error
	SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID int64) error
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expires time.Time) error
	// ResetPassword swaps the password for the user holding a live token
	// and burns the token in the same statement.
	ResetPassword(ctx context.Context, tokenHash string, user *User, now time.Time) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const userColumns = `id, first_name, last_name, email, password, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password.hash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, user.FirstName, user.LastName, user.Email, user.Password.hash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *Repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET first_name = $1, last_name = $2, email = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, user.FirstName, user.LastName, user.Email, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case errors.As(err, &pgErr) && pgErr.Code == "23505":
			return ErrDuplicateEmail
		default:
			return fmt.Errorf("update user: %w", err)
		}
	}
	return nil
}

func (r *Repository) UpdatePassword(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $1, refresh_token = NULL, updated_at = NOW() WHERE id = $2`,
		user.Password.hash, user.ID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`, refreshToken, userID)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	var token *string
	err := r.db.QueryRow(ctx, `SELECT refresh_token FROM users WHERE id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to retrieve refresh token: %w", err)
	}
	if token == nil {
		return "", nil
	}
	return *token, nil
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *Repository) SetResetToken(ctx context.Context, userID int64, tokenHash string, expires time.Time) error {
	query := `
		UPDATE users SET reset_password_token = $1, reset_password_expires = $2
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, tokenHash, expires, userID)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

func (r *Repository) ResetPassword(ctx context.Context, tokenHash string, user *User, now time.Time) error {
	query := `
		UPDATE users
		SET password = $1,
		    reset_password_token = NULL,
		    reset_password_expires = NULL,
		    refresh_token = NULL,
		    updated_at = NOW()
		WHERE reset_password_token = $2 AND reset_password_expires > $3
		RETURNING ` + userColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	hash := user.Password.hash
	u, err := scanUser(r.db.QueryRow(ctx, query, hash, tokenHash, now))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}
	*user = *u
	return nil
}
