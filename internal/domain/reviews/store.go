package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taktivent/internal/domain/questions"
	"taktivent/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, kind Kind, parentID, reviewID int64) (*Review, error)
	Reply(ctx context.Context, kind Kind, parentID, reviewID int64, reply string, at time.Time) (*Review, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Review, error)
	ListBySong(ctx context.Context, songID int64) ([]Review, error)
	ListByOwner(ctx context.Context, userID int64) ([]Review, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// unionReviews yields both review kinds in the column order scanReview reads.
const unionReviews = `
	SELECT er.id, 'event' AS kind, er.event_id, NULL::BIGINT AS song_id, er.user_id,
	       er.rating, er.sentiment, er.comment, er.responses, er.reply, er.replied_at, er.created_at
	FROM event_reviews er
	UNION ALL
	SELECT sr.id, 'song' AS kind, s.event_id, sr.song_id, sr.user_id,
	       sr.rating, sr.sentiment, sr.comment, sr.responses, sr.reply, sr.replied_at, sr.created_at
	FROM song_reviews sr
	JOIN songs s ON s.id = sr.song_id
`

func tableFor(kind Kind) (table, parentColumn string, err error) {
	switch kind {
	case KindEvent:
		return "event_reviews", "event_id", nil
	case KindSong:
		return "song_reviews", "song_id", nil
	}
	return "", "", fmt.Errorf("unknown review kind %q", kind)
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	table, parentColumn, err := tableFor(review.Kind)
	if err != nil {
		return err
	}

	responses := review.Responses
	if responses == nil {
		responses = questions.Responses{}
	}
	raw, err := json.Marshal([]questions.Answer(responses))
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, rating, sentiment, comment, responses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, table, parentColumn)

	var sentiment *string
	if review.Sentiment != nil {
		s := string(*review.Sentiment)
		sentiment = &s
	}

	err = r.db.QueryRow(ctx, query,
		review.ParentID(),
		review.UserID,
		review.Rating,
		sentiment,
		review.Comment,
		raw,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert %s review: %w", review.Kind, err)
	}
	review.Responses = responses
	return nil
}

func (r *Repository) GetByID(ctx context.Context, kind Kind, parentID, reviewID int64) (*Review, error) {
	parentColumn := "event_id"
	if kind == KindSong {
		parentColumn = "song_id"
	}

	query := `SELECT * FROM (` + unionReviews + `) all_reviews
		WHERE kind = $1 AND id = $2 AND ` + parentColumn + ` = $3`

	review, err := scanReview(r.db.QueryRow(ctx, query, string(kind), reviewID, parentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// Reply overwrites any previous reply.
func (r *Repository) Reply(ctx context.Context, kind Kind, parentID, reviewID int64, reply string, at time.Time) (*Review, error) {
	table, parentColumn, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET reply = $1, replied_at = $2, updated_at = NOW()
		WHERE id = $3 AND %s = $4
	`, table, parentColumn)

	tag, err := r.db.Exec(ctx, query, reply, at, reviewID, parentID)
	if err != nil {
		return nil, fmt.Errorf("reply to review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, kind, parentID, reviewID)
}

func (r *Repository) ListByEvent(ctx context.Context, eventID int64) ([]Review, error) {
	query := `SELECT * FROM (` + unionReviews + `) all_reviews
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, eventID)
}

func (r *Repository) ListBySong(ctx context.Context, songID int64) ([]Review, error) {
	query := `SELECT * FROM (` + unionReviews + `) all_reviews
		WHERE kind = 'song' AND song_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, songID)
}

func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Review, error) {
	query := `SELECT all_reviews.* FROM (` + unionReviews + `) all_reviews
		JOIN events e ON e.id = all_reviews.event_id
		WHERE e.user_id = $1
		ORDER BY all_reviews.created_at DESC, all_reviews.id DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var (
		review    Review
		kind      string
		rating    *int16
		sentiment *string
		raw       []byte
	)

	err := row.Scan(
		&review.ID,
		&kind,
		&review.EventID,
		&review.SongID,
		&review.UserID,
		&rating,
		&sentiment,
		&review.Comment,
		&raw,
		&review.Reply,
		&review.RepliedAt,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.Kind = Kind(kind)
	if rating != nil {
		v := int(*rating)
		review.Rating = &v
	}
	if sentiment != nil {
		s := Sentiment(*sentiment)
		review.Sentiment = &s
	}

	review.Responses = questions.Responses{}
	if len(raw) > 0 {
		var answers []questions.Answer
		if err := json.Unmarshal(raw, &answers); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
		if answers != nil {
			review.Responses = answers
		}
	}
	return &review, nil
}
