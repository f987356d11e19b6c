package templates

import (
	"context"
	"errors"
	"fmt"

	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	List(ctx context.Context, userID int64) ([]Template, error)
	GetByID(ctx context.Context, userID, id int64) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, userID, id int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const columns = `id, user_id, name, description, template_data, created_at, updated_at`

func scanTemplate(row pgx.Row) (*Template, error) {
	t := &Template{}
	var data []byte
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &data, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.Data = data
	return t, nil
}

func mapWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		return ErrDuplicate
	default:
		return fmt.Errorf("%s template: %w", op, err)
	}
}

func data(t *Template) []byte {
	if len(t.Data) == 0 {
		return []byte("{}")
	}
	return t.Data
}

func (r *Repository) List(ctx context.Context, userID int64) ([]Template, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM event_templates WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, userID, id int64) (*Template, error) {
	return scanTemplate(r.db.QueryRow(ctx, `SELECT `+columns+` FROM event_templates WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *Repository) Create(ctx context.Context, t *Template) error {
	query := `
		INSERT INTO event_templates (user_id, name, description, template_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query, t.UserID, t.Name, t.Description, data(t)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return mapWriteErr(err, "insert")
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, t *Template) error {
	query := `
		UPDATE event_templates
		SET name = $1, description = $2, template_data = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query, t.Name, t.Description, data(t), t.ID, t.UserID).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return mapWriteErr(err, "update")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
