package reviews

import (
	"errors"
	"strings"
	"unicode/utf8"

	"taktivent/internal/domain/questions"
)

const MaxCommentLength = 2000

// Submission is an audience review before it is persisted.
type Submission struct {
	Rating    *int
	Sentiment *string
	Comment   *string
	Responses map[string]string
}

// Build validates the submission against the parent's questions and returns
// the review to insert. The caller sets Kind, EventID, SongID and UserID.
func (s Submission) Build(defs []questions.Question) (*Review, error) {
	review := &Review{}

	if s.Rating != nil {
		if *s.Rating < MinRating || *s.Rating > MaxRating {
			return nil, &ValidationError{Field: "rating", Message: "must be between 0 and 5"}
		}
		rating := *s.Rating
		review.Rating = &rating
	}

	if s.Sentiment != nil {
		sentiment := Sentiment(strings.ToLower(strings.TrimSpace(*s.Sentiment)))
		if !sentiment.Valid() {
			return nil, &ValidationError{Field: "sentiment", Message: "must be one of positive, neutral, negative"}
		}
		review.Sentiment = &sentiment
	}

	if s.Comment != nil {
		comment := strings.TrimSpace(*s.Comment)
		if utf8.RuneCountInString(comment) > MaxCommentLength {
			return nil, &ValidationError{Field: "comment", Message: "is too long"}
		}
		if comment != "" {
			review.Comment = &comment
		}
	}

	responses, err := questions.ParseResponses(defs, s.Responses)
	if err != nil {
		var qErr *questions.ValidationError
		if errors.As(err, &qErr) {
			return nil, &ValidationError{Field: "responses", Message: qErr.Error()}
		}
		return nil, err
	}
	review.Responses = responses

	if review.Rating == nil && review.Sentiment == nil && review.Comment == nil && len(review.Responses) == 0 {
		return nil, &ValidationError{Field: "review", Message: "rating, sentiment, comment or responses is required"}
	}

	return review, nil
}
