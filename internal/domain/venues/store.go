package venues

import (
	"context"
	"errors"
	"fmt"

	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	List(ctx context.Context) ([]Venue, error)
	GetByID(ctx context.Context, id int64) (*Venue, error)
	FindOrCreate(ctx context.Context, v *Venue) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const venueColumns = `id, name, address, latitude, longitude, created_at, updated_at`

func scanVenue(row pgx.Row, v *Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.Address, &v.Latitude, &v.Longitude, &v.CreatedAt, &v.UpdatedAt)
}

func (r *Repository) List(ctx context.Context) ([]Venue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	out := []Venue{}
	for rows.Next() {
		var v Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	var v Venue
	err := scanVenue(r.db.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id), &v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindOrCreate matches on (name, address); coordinates are only filled in
// when the venue did not exist yet.
func (r *Repository) FindOrCreate(ctx context.Context, v *Venue) error {
	query := `
		INSERT INTO venues (name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, COALESCE(address, '')) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + venueColumns

	if err := scanVenue(r.db.QueryRow(ctx, query, v.Name, v.Address, v.Latitude, v.Longitude), v); err != nil {
		return fmt.Errorf("find or create venue: %w", err)
	}
	return nil
}
