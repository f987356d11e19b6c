package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/reviews"
	"taktivent/internal/metrics"
)

type CreateReviewPayload struct {
	Rating    *int           `json:"rating" example:"4"`
	Sentiment *string        `json:"sentiment" validate:"omitempty,sentiment" example:"positive"`
	Comment   *string        `json:"comment" validate:"omitempty,max=2000"`
	Responses map[string]any `json:"responses" swaggertype:"object,string"`
}

type ReplyPayload struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

// responseValues flattens answers to strings; star answers may arrive as
// JSON numbers.
func responseValues(raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for q, v := range raw {
		switch val := v.(type) {
		case string:
			out[q] = val
		case float64:
			if val != math.Trunc(val) {
				return nil, &reviews.ValidationError{Field: "responses", Message: fmt.Sprintf("question %q: stars must be a whole number", q)}
			}
			if val < 1 || val > 5 {
				return nil, &reviews.ValidationError{Field: "responses", Message: fmt.Sprintf("question %q: stars must be between 1 and 5", q)}
			}
			out[q] = strconv.Itoa(int(val))
		default:
			return nil, &reviews.ValidationError{Field: "responses", Message: fmt.Sprintf("question %q: answer must be a string or number", q)}
		}
	}
	return out, nil
}

// buildReview validates a submission against the parent's questions.
func (app *application) buildReview(w http.ResponseWriter, r *http.Request, kind reviews.Kind, defs []questions.Question, textbox bool) (*reviews.Review, bool) {
	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	if err := Validate.Struct(payload); err != nil {
		metrics.RecordReviewRejected(string(kind), "payload")
		app.failedValidationResponse(w, r, err)
		return nil, false
	}

	if !textbox && payload.Comment != nil && strings.TrimSpace(*payload.Comment) != "" {
		metrics.RecordReviewRejected(string(kind), "comment")
		app.failedValidationResponse(w, r, &reviews.ValidationError{Field: "comment", Message: "comments are disabled"})
		return nil, false
	}

	answers, err := responseValues(payload.Responses)
	if err != nil {
		metrics.RecordReviewRejected(string(kind), "responses")
		app.failedValidationResponse(w, r, err)
		return nil, false
	}

	review, err := reviews.Submission{
		Rating:    payload.Rating,
		Sentiment: payload.Sentiment,
		Comment:   payload.Comment,
		Responses: answers,
	}.Build(defs)
	if err != nil {
		var vErr *reviews.ValidationError
		if errors.As(err, &vErr) {
			metrics.RecordReviewRejected(string(kind), vErr.Field)
		}
		app.storeError(w, r, err)
		return nil, false
	}

	review.Kind = kind
	if user := getUserFromContext(r); user != nil {
		review.UserID = &user.ID
	}
	return review, true
}

func (app *application) saveReview(w http.ResponseWriter, r *http.Request, review *reviews.Review) {
	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.storeError(w, r, err)
		return
	}

	metrics.RecordReviewSubmitted(string(review.Kind), review.UserID != nil)

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createEventReviewHandler godoc
//
//	@Summary		Review an event
//	@Description	Anonymous submission is allowed. With a bearer token the review counts towards the user's attended events.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int					true	"Event ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/events/{eventID}/reviews [post]
func (app *application) createEventReviewHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)

	review, ok := app.buildReview(w, r, reviews.KindEvent, event.Questions, event.EnableTextbox)
	if !ok {
		return
	}
	review.EventID = event.ID

	app.saveReview(w, r, review)
}

// createSongReviewHandler godoc
//
//	@Summary		Review a song
//	@Description	Responses are checked against the song's own questions
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int					true	"Event ID"
//	@Param			songID	path		int					true	"Song ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/events/{eventID}/songs/{songID}/reviews [post]
func (app *application) createSongReviewHandler(w http.ResponseWriter, r *http.Request) {
	song, ok := app.loadSong(w, r)
	if !ok {
		return
	}

	review, ok := app.buildReview(w, r, reviews.KindSong, song.Questions, song.EnableTextbox)
	if !ok {
		return
	}
	review.EventID = song.EventID
	review.SongID = &song.ID

	app.saveReview(w, r, review)
}

func (app *application) reply(w http.ResponseWriter, r *http.Request, kind reviews.Kind, parentID int64) {
	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReplyPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Reply = strings.TrimSpace(payload.Reply)
	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	review, err := app.store.Reviews.Reply(r.Context(), kind, parentID, reviewID, payload.Reply, app.now().UTC())
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	metrics.ReviewReplies.WithLabelValues(string(kind)).Inc()

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// replyEventReviewHandler godoc
//
//	@Summary		Reply to an event review
//	@Description	Owner only. A second reply replaces the first.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID		path		int				true	"Event ID"
//	@Param			reviewID	path		int				true	"Review ID"
//	@Param			payload		body		ReplyPayload	true	"Reply"
//	@Success		200			{object}	reviews.Review
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/reviews/{reviewID}/reply [post]
func (app *application) replyEventReviewHandler(w http.ResponseWriter, r *http.Request) {
	app.reply(w, r, reviews.KindEvent, getEventFromContext(r).ID)
}

// replySongReviewHandler godoc
//
//	@Summary		Reply to a song review
//	@Description	Owner only. A second reply replaces the first.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID		path		int				true	"Event ID"
//	@Param			songID		path		int				true	"Song ID"
//	@Param			reviewID	path		int				true	"Review ID"
//	@Param			payload		body		ReplyPayload	true	"Reply"
//	@Success		200			{object}	reviews.Review
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/songs/{songID}/reviews/{reviewID}/reply [post]
func (app *application) replySongReviewHandler(w http.ResponseWriter, r *http.Request) {
	song, ok := app.loadSong(w, r)
	if !ok {
		return
	}
	app.reply(w, r, reviews.KindSong, song.ID)
}
