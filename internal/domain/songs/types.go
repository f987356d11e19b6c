package songs

import (
	"errors"
	"time"

	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/questions"
)

var ErrNotFound = errors.New("song not found")

type Song struct {
	ID             int64                  `json:"id"`
	EventID        int64                  `json:"event_id"`
	Name           string                 `json:"name"`
	ComposerName   string                 `json:"composer_name"`
	Description    *string                `json:"description"`
	StartAt        time.Time              `json:"start_at"`
	LengthInMinute int                    `json:"length_in_minute"`
	EnableTextbox  bool                   `json:"enable_textbox"`
	Questions      []questions.Question   `json:"questions_and_choices"`
	ImageURLs      []string               `json:"images"`
	Performers     []performers.Performer `json:"performers"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`

	// computed on read
	ReviewsCount  int      `json:"reviews_count"`
	AverageRating *float64 `json:"average_rating"`
	EventName     string   `json:"event_name,omitempty"`
}

// EndAt is the exclusive end of the song's slot.
func (s Song) EndAt() time.Time {
	return s.StartAt.Add(time.Duration(s.LengthInMinute) * time.Minute)
}
