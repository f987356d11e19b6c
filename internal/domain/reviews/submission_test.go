package reviews

import (
	"errors"
	"strings"
	"testing"

	"taktivent/internal/domain/questions"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSubmissionBuild(t *testing.T) {
	defs := []questions.Question{
		{Question: "Encore?", Type: questions.TypeRadio, Choices: []string{"Yes", "No"}},
	}

	tests := []struct {
		name      string
		sub       Submission
		wantField string
	}{
		{name: "rating five", sub: Submission{Rating: intPtr(5)}},
		{name: "rating zero is accepted", sub: Submission{Rating: intPtr(0)}},
		{name: "rating six", sub: Submission{Rating: intPtr(6)}, wantField: "rating"},
		{name: "negative rating", sub: Submission{Rating: intPtr(-1)}, wantField: "rating"},
		{name: "sentiment only", sub: Submission{Sentiment: strPtr("Neutral")}},
		{name: "unknown sentiment", sub: Submission{Sentiment: strPtr("ecstatic")}, wantField: "sentiment"},
		{name: "comment only", sub: Submission{Comment: strPtr("Lovely evening")}},
		{name: "responses only", sub: Submission{Responses: map[string]string{"Encore?": "Yes"}}},
		{name: "bad response", sub: Submission{Responses: map[string]string{"Encore?": "Maybe"}}, wantField: "responses"},
		{name: "comment at the limit", sub: Submission{Comment: strPtr(strings.Repeat("a", MaxCommentLength))}},
		{name: "comment over the limit", sub: Submission{Comment: strPtr(strings.Repeat("a", MaxCommentLength+1))}, wantField: "comment"},
		{name: "multi-byte comment counts characters", sub: Submission{Comment: strPtr(strings.Repeat("音", MaxCommentLength))}},
		{name: "multi-byte comment over the limit", sub: Submission{Comment: strPtr(strings.Repeat("音", MaxCommentLength+1))}, wantField: "comment"},
		{name: "empty review", sub: Submission{Comment: strPtr("   ")}, wantField: "review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := tt.sub.Build(defs)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if review == nil {
					t.Fatal("expected review")
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestSubmissionBuildNormalises(t *testing.T) {
	review, err := Submission{
		Rating:    intPtr(4),
		Sentiment: strPtr(" POSITIVE "),
		Comment:   strPtr("  bravo  "),
	}.Build(nil)
	if err != nil {
		t.Fatal(err)
	}

	if *review.Sentiment != Positive {
		t.Errorf("sentiment = %q", *review.Sentiment)
	}
	if *review.Comment != "bravo" {
		t.Errorf("comment = %q", *review.Comment)
	}
	if review.Responses == nil {
		t.Error("responses should be empty, not nil")
	}
}
