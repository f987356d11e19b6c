package songs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/questions"
	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, s *Song) error
	GetByID(ctx context.Context, eventID, songID int64) (*Song, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Song, error)
	Update(ctx context.Context, s *Song) error
	Delete(ctx context.Context, eventID, songID int64) error
	SetPerformers(ctx context.Context, ownerID, songID int64, performerIDs []int64) error
	Search(ctx context.Context, ownerID int64, q string, limit int) ([]Song, error)
	Composers(ctx context.Context, ownerID int64, q string, limit int) ([]string, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const selectSong = `
	SELECT s.id, s.event_id, s.name, s.composer_name, s.description, s.start_at, s.length_in_minute,
	       s.enable_textbox, s.questions_and_choices, s.image_urls, s.created_at, s.updated_at,
	       (SELECT COUNT(*) FROM song_reviews r WHERE r.song_id = s.id),
	       (SELECT ROUND(AVG(r.rating)::numeric, 1)::float8 FROM song_reviews r WHERE r.song_id = s.id),
	       e.name
	FROM songs s
	JOIN events e ON e.id = s.event_id
`

func scanSong(row pgx.Row) (*Song, error) {
	var (
		s            Song
		questionsRaw []byte
		imagesRaw    []byte
		reviewsCount int64
	)
	err := row.Scan(
		&s.ID, &s.EventID, &s.Name, &s.ComposerName, &s.Description, &s.StartAt, &s.LengthInMinute,
		&s.EnableTextbox, &questionsRaw, &imagesRaw, &s.CreatedAt, &s.UpdatedAt,
		&reviewsCount, &s.AverageRating, &s.EventName,
	)
	if err != nil {
		return nil, err
	}

	s.Questions = []questions.Question{}
	s.ImageURLs = []string{}
	s.Performers = []performers.Performer{}
	if len(questionsRaw) > 0 {
		if err := json.Unmarshal(questionsRaw, &s.Questions); err != nil {
			return nil, fmt.Errorf("decode questions_and_choices: %w", err)
		}
	}
	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &s.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode image_urls: %w", err)
		}
	}
	s.ReviewsCount = int(reviewsCount)
	return &s, nil
}

func marshalList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

func (r *Repository) Create(ctx context.Context, s *Song) error {
	questionsRaw, err := marshalList(s.Questions)
	if err != nil {
		return err
	}
	imagesRaw, err := marshalList(s.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO songs (event_id, name, composer_name, description, start_at, length_in_minute,
		                   enable_textbox, questions_and_choices, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query,
		s.EventID, s.Name, s.ComposerName, s.Description, s.StartAt, s.LengthInMinute,
		s.EnableTextbox, questionsRaw, imagesRaw,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, eventID, songID int64) (*Song, error) {
	s, err := scanSong(r.db.QueryRow(ctx, selectSong+` WHERE s.id = $1 AND s.event_id = $2`, songID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get song: %w", err)
	}

	if err := r.attachPerformers(ctx, []*Song{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) ListByEvent(ctx context.Context, eventID int64) ([]Song, error) {
	return r.list(ctx, selectSong+` WHERE s.event_id = $1 ORDER BY s.start_at, s.id`, eventID)
}

func (r *Repository) Update(ctx context.Context, s *Song) error {
	questionsRaw, err := marshalList(s.Questions)
	if err != nil {
		return err
	}
	imagesRaw, err := marshalList(s.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE songs
		SET name = $1, composer_name = $2, description = $3, start_at = $4, length_in_minute = $5,
		    enable_textbox = $6, questions_and_choices = $7, image_urls = $8, updated_at = NOW()
		WHERE id = $9 AND event_id = $10
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query,
		s.Name, s.ComposerName, s.Description, s.StartAt, s.LengthInMinute,
		s.EnableTextbox, questionsRaw, imagesRaw, s.ID, s.EventID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update song: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, eventID, songID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM songs WHERE id = $1 AND event_id = $2`, songID, eventID)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPerformers replaces the song's line-up. Ids of performers that do not
// belong to ownerID are ignored.
func (r *Repository) SetPerformers(ctx context.Context, ownerID, songID int64, performerIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM song_performers WHERE song_id = $1`, songID); err != nil {
		return fmt.Errorf("clear song performers: %w", err)
	}
	if len(performerIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO song_performers (song_id, performer_id)
		SELECT $1, p.id FROM performers p
		WHERE p.id = ANY($2) AND p.user_id = $3
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, songID, performerIDs, ownerID); err != nil {
		return fmt.Errorf("set song performers: %w", err)
	}
	return nil
}

// Search matches name or composer among the owner's songs. An empty query
// returns the most recent songs.
func (r *Repository) Search(ctx context.Context, ownerID int64, q string, limit int) ([]Song, error) {
	if q == "" {
		return r.list(ctx, selectSong+` WHERE e.user_id = $1 ORDER BY s.created_at DESC LIMIT $2`, ownerID, limit)
	}
	return r.list(ctx, selectSong+`
		WHERE e.user_id = $1 AND (s.name ILIKE $2 OR s.composer_name ILIKE $2)
		ORDER BY s.created_at DESC LIMIT $3`, ownerID, "%"+q+"%", limit)
}

func (r *Repository) Composers(ctx context.Context, ownerID int64, q string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT s.composer_name
		FROM songs s
		JOIN events e ON e.id = s.event_id
		WHERE e.user_id = $1 AND s.composer_name <> '' AND s.composer_name ILIKE $2
		ORDER BY s.composer_name
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("list composers: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Song, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	out := []Song{}
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan song: %w", err)
		}
		out = append(out, *s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*Song, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := r.attachPerformers(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) attachPerformers(ctx context.Context, list []*Song) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]int64, len(list))
	byID := make(map[int64]*Song, len(list))
	for i, s := range list {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	query := `
		SELECT sp.song_id, ` + performers.Columns + `
		FROM song_performers sp
		JOIN performers p ON p.id = sp.performer_id
		WHERE sp.song_id = ANY($1)
		ORDER BY p.name
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load song performers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			songID int64
			p      performers.Performer
			images []byte
		)
		if err := rows.Scan(&songID, &p.ID, &p.UserID, &p.Name, &p.Description, &p.Bio, &images, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		p.ImageURLs = []string{}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
				return fmt.Errorf("decode performer images: %w", err)
			}
		}
		if s, ok := byID[songID]; ok {
			s.Performers = append(s.Performers, p)
		}
	}
	return rows.Err()
}
