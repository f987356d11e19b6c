package reviews

import (
	"errors"
	"fmt"
	"time"

	"taktivent/internal/domain/questions"
)

var (
	ErrNotFound = errors.New("review not found")
)

// Kind tells which table a review lives in.
type Kind string

const (
	KindEvent Kind = "event"
	KindSong  Kind = "song"
)

type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Sentiments lists the closed set of labels in display order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Neutral, Negative:
		return true
	}
	return false
}

const (
	MinRating = 0
	MaxRating = 5
)

type Review struct {
	ID        int64               `json:"id"`
	Kind      Kind                `json:"kind"`
	EventID   int64               `json:"event_id"`
	SongID    *int64              `json:"song_id,omitempty"`
	UserID    *int64              `json:"-"` // attendance only, never exposed
	Rating    *int                `json:"rating"`
	Sentiment *Sentiment          `json:"sentiment"`
	Comment   *string             `json:"comment"`
	Responses questions.Responses `json:"responses"`
	Reply     *string             `json:"reply"`
	RepliedAt *time.Time          `json:"replied_at"`
	CreatedAt time.Time           `json:"created_at"`
}

// ParentID is the id of the event or song owning the review.
func (r *Review) ParentID() int64 {
	if r.Kind == KindSong && r.SongID != nil {
		return *r.SongID
	}
	return r.EventID
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
