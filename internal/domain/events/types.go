package events

import (
	"errors"
	"time"

	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/venues"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrInvalidRange = errors.New("end_at must not be before start_at")
)

type Event struct {
	ID            int64                `json:"id"`
	UserID        int64                `json:"user_id"`
	VenueID       *int64               `json:"-"`
	Venue         *venues.Venue        `json:"venue"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	StartAt       time.Time            `json:"start_at"`
	EndAt         time.Time            `json:"end_at"`
	EnableTextbox bool                 `json:"enable_textbox"`
	Questions     []questions.Question `json:"questions_and_choices"`
	ImageURLs     []string             `json:"images"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`

	// computed on read
	SongsCount    int      `json:"songs_count"`
	ReviewsCount  int      `json:"reviews_count"`
	AverageRating *float64 `json:"average_rating"`
}

// OwnedBy reports whether userID is the organizer of the event.
func (e *Event) OwnedBy(userID int64) bool {
	return e != nil && e.UserID == userID
}

func (e *Event) ValidateWindow() error {
	if e.EndAt.Before(e.StartAt) {
		return ErrInvalidRange
	}
	return nil
}
