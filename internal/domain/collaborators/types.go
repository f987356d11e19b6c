package collaborators

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("collaborator not found")
	ErrAlreadyExists = errors.New("user is already a collaborator on this event")
)

type Role string

const (
	Editor Role = "editor"
	Viewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == Editor || r == Viewer
}

// CanEdit reports whether the role may change the event and its songs.
func (r Role) CanEdit() bool {
	return r == Editor
}

type Collaborator struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
