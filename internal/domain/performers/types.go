package performers

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("performer not found")
	ErrConflict = errors.New("a performer with that name and description already exists")
)

type Performer struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Bio         *string   `json:"bio"`
	ImageURLs   []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
