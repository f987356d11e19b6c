package performers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	ListByOwner(ctx context.Context, userID int64) ([]Performer, error)
	GetByID(ctx context.Context, userID, id int64) (*Performer, error)
	Create(ctx context.Context, p *Performer) error
	Update(ctx context.Context, p *Performer) error
	Delete(ctx context.Context, userID, id int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// Columns is exported so the songs repository can load line-ups with the
// same scan order.
const Columns = `p.id, p.user_id, p.name, p.description, p.bio, p.image_urls, p.created_at, p.updated_at`

// scanPerformer reads a row selected with Columns.
func scanPerformer(row pgx.Row, p *Performer) error {
	var images []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Bio, &images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.ImageURLs = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
			return fmt.Errorf("decode image_urls: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Performer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+Columns+` FROM performers p WHERE p.user_id = $1 ORDER BY p.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list performers: %w", err)
	}
	defer rows.Close()

	out := []Performer{}
	for rows.Next() {
		var p Performer
		if err := scanPerformer(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, userID, id int64) (*Performer, error) {
	var p Performer
	err := scanPerformer(r.db.QueryRow(ctx, `SELECT `+Columns+` FROM performers p WHERE p.id = $1 AND p.user_id = $2`, id, userID), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *Performer) error {
	images, err := json.Marshal(nonNil(p.ImageURLs))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO performers (user_id, name, description, bio, image_urls)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, p.UserID, p.Name, p.Description, p.Bio, images).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert performer: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, p *Performer) error {
	images, err := json.Marshal(nonNil(p.ImageURLs))
	if err != nil {
		return err
	}

	query := `
		UPDATE performers
		SET name = $1, description = $2, bio = $3, image_urls = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query, p.Name, p.Description, p.Bio, images, p.ID, p.UserID).Scan(&p.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isUniqueViolation(err):
			return ErrConflict
		}
		return fmt.Errorf("update performer: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM performers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete performer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
