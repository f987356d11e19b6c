package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taktivent/internal/domain/analytics"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/songs"
	"taktivent/internal/domain/storage"
	"taktivent/internal/domain/venues"
	"taktivent/internal/params"
)

const duplicateOffset = 7 * 24 * time.Hour

type VenuePayload struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Address   *string  `json:"address" validate:"omitempty,max=500"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type CreateEventPayload struct {
	Name          string               `json:"name" validate:"required,max=255"`
	Description   *string              `json:"description" validate:"omitempty,max=5000"`
	StartAt       time.Time            `json:"start_at" validate:"required"`
	EndAt         time.Time            `json:"end_at" validate:"required"`
	EnableTextbox *bool                `json:"enable_textbox"`
	Questions     []questions.Question `json:"questions_and_choices" validate:"omitempty,max=20,dive"`
	ImageURLs     []string             `json:"images" validate:"omitempty,max=10,dive,url"`
	Venue         *VenuePayload        `json:"venue"`
}

type UpdateEventPayload struct {
	Name          *string               `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string               `json:"description" validate:"omitempty,max=5000"`
	StartAt       *time.Time            `json:"start_at"`
	EndAt         *time.Time            `json:"end_at"`
	EnableTextbox *bool                 `json:"enable_textbox"`
	Questions     *[]questions.Question `json:"questions_and_choices" validate:"omitempty,max=20,dive"`
	ImageURLs     *[]string             `json:"images" validate:"omitempty,max=10,dive,url"`
	Venue         *VenuePayload         `json:"venue"`
}

// EventDetail is an event with its programme, as shown to the audience.
type EventDetail struct {
	*events.Event
	ShareURL string       `json:"share_url"`
	Songs    []songs.Song `json:"songs"`
}

type EventList struct {
	Events     []events.Event    `json:"events"`
	Pagination params.Pagination `json:"pagination"`
}

// resolveVenue finds or creates the venue named in the payload.
func resolveVenue(r *http.Request, store venues.Store, p *VenuePayload) (*venues.Venue, error) {
	v := &venues.Venue{
		Name:      strings.TrimSpace(p.Name),
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
	if err := store.FindOrCreate(r.Context(), v); err != nil {
		return nil, err
	}
	return v, nil
}

// createEventHandler godoc
//
//	@Summary		Create event
//	@Description	Creates an event owned by the caller. The venue is matched by name and address or created.
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateEventPayload	true	"Event"
//	@Success		201		{object}	events.Event
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events [post]
func (app *application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event := &events.Event{
		UserID:        getUserFromContext(r).ID,
		Name:          strings.TrimSpace(payload.Name),
		Description:   payload.Description,
		StartAt:       payload.StartAt,
		EndAt:         payload.EndAt,
		EnableTextbox: payload.EnableTextbox == nil || *payload.EnableTextbox,
		Questions:     payload.Questions,
		ImageURLs:     payload.ImageURLs,
	}

	if err := event.ValidateWindow(); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}
	if err := questions.ValidateDefinitions(event.Questions); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if payload.Venue != nil {
		venue, err := resolveVenue(r, app.store.Venues, payload.Venue)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		event.Venue = venue
		event.VenueID = &venue.ID
	}

	if err := app.store.Events.Create(r.Context(), event); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.logger.Infow("event created", "event_id", event.ID, "user_id", event.UserID)

	if err := app.jsonResponse(w, http.StatusCreated, event); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listEventsHandler godoc
//
//	@Summary		List own events
//	@Tags			events
//	@Produce		json
//	@Param			page	query		int	false	"Page"
//	@Param			limit	query		int	false	"Page size"
//	@Success		200		{object}	EventList
//	@Security		ApiKeyAuth
//	@Router			/events [get]
func (app *application) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Events.ListByOwner(r.Context(), getUserFromContext(r).ID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, EventList{Events: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getEventHandler godoc
//
//	@Summary		Show event
//	@Description	Public view of an event with its songs in programme order
//	@Tags			events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	EventDetail
//	@Failure		404		{object}	ErrorResponse
//	@Router			/events/{eventID} [get]
func (app *application) getEventHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := app.eventDetail(r.Context(), getEventFromContext(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) eventDetail(ctx context.Context, event *events.Event) (*EventDetail, error) {
	programme, err := app.store.Songs.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	shareURL, err := app.share.EventURL(event.ID)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: event, ShareURL: shareURL, Songs: programme}, nil
}

// updateEventHandler godoc
//
//	@Summary		Update event
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int					true	"Event ID"
//	@Param			payload	body		UpdateEventPayload	true	"Fields to change"
//	@Success		200		{object}	events.Event
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID} [patch]
func (app *application) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event := *getEventFromContext(r)
	if payload.Name != nil {
		event.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		event.Description = payload.Description
	}
	if payload.StartAt != nil {
		event.StartAt = *payload.StartAt
	}
	if payload.EndAt != nil {
		event.EndAt = *payload.EndAt
	}
	if payload.EnableTextbox != nil {
		event.EnableTextbox = *payload.EnableTextbox
	}
	if payload.Questions != nil {
		event.Questions = *payload.Questions
	}
	if payload.ImageURLs != nil {
		event.ImageURLs = *payload.ImageURLs
	}

	if err := event.ValidateWindow(); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}
	if err := questions.ValidateDefinitions(event.Questions); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if payload.Venue != nil {
		venue, err := resolveVenue(r, app.store.Venues, payload.Venue)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		event.Venue = venue
		event.VenueID = &venue.ID
	}

	if err := app.store.Events.Update(r.Context(), &event); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, &event); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteEventHandler godoc
//
//	@Summary		Delete event
//	@Description	Deletes the event with its songs and every review
//	@Tags			events
//	@Param			eventID	path	int	true	"Event ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID} [delete]
func (app *application) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)

	if err := app.store.Events.Delete(r.Context(), event.ID); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.logger.Infow("event deleted", "event_id", event.ID)
	w.WriteHeader(http.StatusNoContent)
}

// duplicateEventHandler godoc
//
//	@Summary		Duplicate event
//	@Description	Copies the event, its songs and their performers one week later. Reviews are not copied.
//	@Tags			events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		201		{object}	EventDetail
//	@Failure		403		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/duplicate [post]
func (app *application) duplicateEventHandler(w http.ResponseWriter, r *http.Request) {
	src := getEventFromContext(r)
	ctx := r.Context()

	var detail EventDetail
	err := app.store.WithTx(ctx, func(tx *storage.Container) error {
		programme, err := tx.Songs.ListByEvent(ctx, src.ID)
		if err != nil {
			return err
		}

		copied := *src
		copied.ID = 0
		copied.Name = src.Name + " (copy)"
		copied.StartAt = src.StartAt.Add(duplicateOffset)
		copied.EndAt = src.EndAt.Add(duplicateOffset)
		copied.SongsCount, copied.ReviewsCount, copied.AverageRating = len(programme), 0, nil
		if err := tx.Events.Create(ctx, &copied); err != nil {
			return err
		}

		out := make([]songs.Song, 0, len(programme))
		for _, s := range programme {
			s.ID = 0
			s.EventID = copied.ID
			s.StartAt = s.StartAt.Add(duplicateOffset)
			s.ReviewsCount, s.AverageRating = 0, nil
			if err := tx.Songs.Create(ctx, &s); err != nil {
				return err
			}

			ids := make([]int64, 0, len(s.Performers))
			for _, p := range s.Performers {
				ids = append(ids, p.ID)
			}
			if err := tx.Songs.SetPerformers(ctx, copied.UserID, s.ID, ids); err != nil {
				return err
			}
			out = append(out, s)
		}

		detail = EventDetail{Event: &copied, Songs: out}
		return nil
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if detail.ShareURL, err = app.share.EventURL(detail.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("event duplicated", "source_event_id", src.ID, "event_id", detail.ID)

	if err := app.jsonResponse(w, http.StatusCreated, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

type EventStats struct {
	EventsCount int `json:"events_count"`
	analytics.Snapshot
}

// eventStatsHandler godoc
//
//	@Summary		Stats across own events
//	@Description	One analytics snapshot over every review of every event the caller owns
//	@Tags			analytics
//	@Produce		json
//	@Success		200	{object}	EventStats
//	@Security		ApiKeyAuth
//	@Router			/events/stats [get]
func (app *application) eventStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := getUserFromContext(r).ID

	count, err := app.store.Events.CountByOwner(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	rs, err := app.store.Reviews.ListByOwner(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, EventStats{EventsCount: count, Snapshot: analytics.Compute(rs)}); err != nil {
		app.internalServerError(w, r, err)
	}
}
