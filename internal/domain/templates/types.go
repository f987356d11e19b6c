package templates

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("template not found")
	ErrDuplicate = errors.New("a template with that name already exists")
)

// Template stores a reusable event layout. Data is kept opaque; the client
// owns its shape.
type Template struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Data        json.RawMessage `json:"template_data" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
