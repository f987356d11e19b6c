package questions

import (
	"strconv"
	"strings"
)

// ValidateDefinitions checks a questions_and_choices list before it is
// stored on an event or a song.
func ValidateDefinitions(defs []Question) error {
	seen := make(map[string]bool, len(defs))
	for _, q := range defs {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return &ValidationError{Message: "question text is required"}
		}
		if seen[text] {
			return &ValidationError{Question: text, Message: "duplicate question"}
		}
		seen[text] = true

		if !q.Type.Valid() {
			return &ValidationError{Question: text, Message: "unknown question_type " + strconv.Quote(string(q.Type))}
		}
		if q.Type != TypeStars && len(q.Choices) == 0 {
			return &ValidationError{Question: text, Message: "choices are required"}
		}
	}
	return nil
}

// ParseResponses validates raw answers against the parent's question
// definitions. Questions left unanswered are skipped.
func ParseResponses(defs []Question, raw map[string]string) (Responses, error) {
	if len(raw) == 0 {
		return Responses{}, nil
	}

	known := make(map[string]Question, len(defs))
	for _, q := range defs {
		known[q.Question] = q
	}
	for text := range raw {
		if _, ok := known[text]; !ok {
			return nil, &ValidationError{Question: text, Message: "unknown question"}
		}
	}

	out := make(Responses, 0, len(raw))
	for _, q := range defs {
		value, ok := raw[q.Question]
		if !ok {
			continue
		}
		answer, err := parseAnswer(q, strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		out = append(out, answer)
	}
	return out, nil
}

func parseAnswer(q Question, value string) (Answer, error) {
	switch q.Type {
	case TypeStars:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 5 {
			return Answer{}, &ValidationError{Question: q.Question, Message: "stars must be an integer between 1 and 5"}
		}
		return Answer{Question: q.Question, Type: q.Type, Stars: n}, nil
	case TypeRadio, TypeDropdown:
		for _, c := range q.Choices {
			if c == value {
				return Answer{Question: q.Question, Type: q.Type, Choice: value}, nil
			}
		}
		return Answer{}, &ValidationError{Question: q.Question, Message: "answer is not one of the choices"}
	}
	return Answer{}, &ValidationError{Question: q.Question, Message: "unsupported question_type"}
}
