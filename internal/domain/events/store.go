package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/venues"
	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, userID int64, limit, offset int) ([]Event, int, error)
	ListAttended(ctx context.Context, userID int64) ([]Event, error)
	CountByOwner(ctx context.Context, userID int64) (int, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const selectEvent = `
	SELECT e.id, e.user_id, e.venue_id, e.name, e.description, e.start_at, e.end_at,
	       e.enable_textbox, e.questions_and_choices, e.image_urls, e.created_at, e.updated_at,
	       v.name, v.address, v.latitude, v.longitude, v.created_at, v.updated_at,
	       (SELECT COUNT(*) FROM songs s WHERE s.event_id = e.id),
	       (SELECT COUNT(*) FROM event_reviews r WHERE r.event_id = e.id),
	       (SELECT ROUND(AVG(r.rating)::numeric, 1)::float8 FROM event_reviews r WHERE r.event_id = e.id)
	FROM events e
	LEFT JOIN venues v ON v.id = e.venue_id
`

func scanEvent(row pgx.Row) (*Event, error) {
	var (
		e            Event
		questionsRaw []byte
		imagesRaw    []byte
		venueName    *string
		venueAddress *string
		venueLat     *float64
		venueLng     *float64
		venueCreated *time.Time
		venueUpdated *time.Time
		songsCount   int64
		reviewsCount int64
	)

	err := row.Scan(
		&e.ID, &e.UserID, &e.VenueID, &e.Name, &e.Description, &e.StartAt, &e.EndAt,
		&e.EnableTextbox, &questionsRaw, &imagesRaw, &e.CreatedAt, &e.UpdatedAt,
		&venueName, &venueAddress, &venueLat, &venueLng, &venueCreated, &venueUpdated,
		&songsCount, &reviewsCount, &e.AverageRating,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(questionsRaw, &e.Questions); err != nil {
		return nil, fmt.Errorf("decode questions_and_choices: %w", err)
	}
	if err := decodeJSON(imagesRaw, &e.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image_urls: %w", err)
	}
	if e.Questions == nil {
		e.Questions = []questions.Question{}
	}
	if e.ImageURLs == nil {
		e.ImageURLs = []string{}
	}

	if e.VenueID != nil && venueName != nil {
		e.Venue = &venues.Venue{
			ID:        *e.VenueID,
			Name:      *venueName,
			Address:   venueAddress,
			Latitude:  venueLat,
			Longitude: venueLng,
		}
		if venueCreated != nil {
			e.Venue.CreatedAt = *venueCreated
		}
		if venueUpdated != nil {
			e.Venue.UpdatedAt = *venueUpdated
		}
	}

	e.SongsCount = int(songsCount)
	e.ReviewsCount = int(reviewsCount)
	return &e, nil
}

func decodeJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func encodeJSON[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

func (r *Repository) Create(ctx context.Context, e *Event) error {
	questionsRaw, err := encodeJSON(e.Questions)
	if err != nil {
		return err
	}
	imagesRaw, err := encodeJSON(e.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (user_id, venue_id, name, description, start_at, end_at,
		                    enable_textbox, questions_and_choices, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query,
		e.UserID, e.VenueID, e.Name, e.Description, e.StartAt, e.EndAt,
		e.EnableTextbox, questionsRaw, imagesRaw,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, selectEvent+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *Repository) Update(ctx context.Context, e *Event) error {
	questionsRaw, err := encodeJSON(e.Questions)
	if err != nil {
		return err
	}
	imagesRaw, err := encodeJSON(e.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE events
		SET venue_id = $1, name = $2, description = $3, start_at = $4, end_at = $5,
		    enable_textbox = $6, questions_and_choices = $7, image_urls = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query,
		e.VenueID, e.Name, e.Description, e.StartAt, e.EndAt,
		e.EnableTextbox, questionsRaw, imagesRaw, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes the event; songs and reviews go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListByOwner(ctx context.Context, userID int64, limit, offset int) ([]Event, int, error) {
	total, err := r.CountByOwner(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	query := selectEvent + ` WHERE e.user_id = $1 ORDER BY e.start_at DESC LIMIT $2 OFFSET $3`
	out, err := r.list(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAttended returns the events a user reviewed, directly or through one
// of the event's songs.
func (r *Repository) ListAttended(ctx context.Context, userID int64) ([]Event, error) {
	query := selectEvent + `
		WHERE e.id IN (
			SELECT event_id FROM event_reviews WHERE user_id = $1
			UNION
			SELECT s.event_id FROM song_reviews sr JOIN songs s ON s.id = sr.song_id WHERE sr.user_id = $1
		)
		ORDER BY e.start_at DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) CountByOwner(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
