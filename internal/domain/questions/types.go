package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Type string

const (
	TypeRadio    Type = "radio"
	TypeDropdown Type = "dropdown"
	TypeStars    Type = "stars"
)

func (t Type) Valid() bool {
	switch t {
	case TypeRadio, TypeDropdown, TypeStars:
		return true
	}
	return false
}

// Question is one entry of an event's or song's questions_and_choices.
type Question struct {
	Question string   `json:"question" validate:"required,max=255"`
	Type     Type     `json:"question_type" validate:"required,questiontype"`
	Choices  []string `json:"choices"`
}

// Answer is a single validated response. Choice is set for radio and
// dropdown questions, Stars for star questions.
type Answer struct {
	Question string `json:"question"`
	Type     Type   `json:"question_type"`
	Choice   string `json:"choice,omitempty"`
	Stars    int    `json:"stars,omitempty"`
}

// Value is the answer as the client sends it: the chosen string or the star
// count as a string.
func (a Answer) Value() string {
	if a.Type == TypeStars {
		return strconv.Itoa(a.Stars)
	}
	return a.Choice
}

// Responses keeps answers in the order of the question definitions.
type Responses []Answer

// MarshalJSON writes the responses as an object keyed by question text,
// preserving order.
func (rs Responses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(a.Question)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value())
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type ValidationError struct {
	Question string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Question == "" {
		return e.Message
	}
	return fmt.Sprintf("question %q: %s", e.Question, e.Message)
}
