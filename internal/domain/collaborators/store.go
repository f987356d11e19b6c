package collaborators

import (
	"context"
	"errors"
	"fmt"

	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	List(ctx context.Context, eventID int64) ([]Collaborator, error)
	Add(ctx context.Context, c *Collaborator) error
	UpdateRole(ctx context.Context, eventID, collaboratorID int64, role Role) (*Collaborator, error)
	Remove(ctx context.Context, eventID, collaboratorID int64) error
	// RoleFor returns ErrNotFound when userID does not collaborate on eventID.
	RoleFor(ctx context.Context, eventID, userID int64) (Role, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const selectCollaborator = `
	SELECT c.id, c.event_id, c.user_id, c.role, u.first_name, u.last_name, u.email, c.created_at, c.updated_at
	FROM event_collaborators c
	JOIN users u ON u.id = c.user_id
`

func scanCollaborator(row pgx.Row) (*Collaborator, error) {
	c := &Collaborator{}
	err := row.Scan(&c.ID, &c.EventID, &c.UserID, &c.Role, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, eventID int64) ([]Collaborator, error) {
	rows, err := r.db.Query(ctx, selectCollaborator+` WHERE c.event_id = $1 ORDER BY c.created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	out := []Collaborator{}
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) Add(ctx context.Context, c *Collaborator) error {
	query := `
		WITH ins AS (
			INSERT INTO event_collaborators (event_id, user_id, role)
			VALUES ($1, $2, $3)
			RETURNING id, event_id, user_id, role, created_at, updated_at
		)
		SELECT ins.id, ins.event_id, ins.user_id, ins.role, u.first_name, u.last_name, u.email, ins.created_at, ins.updated_at
		FROM ins JOIN users u ON u.id = ins.user_id
	`
	got, err := scanCollaborator(r.db.QueryRow(ctx, query, c.EventID, c.UserID, c.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add collaborator: %w", err)
	}
	*c = *got
	return nil
}

func (r *Repository) UpdateRole(ctx context.Context, eventID, collaboratorID int64, role Role) (*Collaborator, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_collaborators SET role = $1, updated_at = NOW() WHERE id = $2 AND event_id = $3`,
		role, collaboratorID, eventID)
	if err != nil {
		return nil, fmt.Errorf("update collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return scanCollaborator(r.db.QueryRow(ctx, selectCollaborator+` WHERE c.id = $1`, collaboratorID))
}

func (r *Repository) Remove(ctx context.Context, eventID, collaboratorID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_collaborators WHERE id = $1 AND event_id = $2`, collaboratorID, eventID)
	if err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) RoleFor(ctx context.Context, eventID, userID int64) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx,
		`SELECT role FROM event_collaborators WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return role, nil
}
