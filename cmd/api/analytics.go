package main

import (
	"errors"
	"net/http"

	"taktivent/internal/domain/analytics"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/reviews"
	"taktivent/internal/domain/schedule"
	"taktivent/internal/domain/songs"
	"taktivent/internal/params"
)

type Dashboard struct {
	Event   *events.Event    `json:"event"`
	Songs   []songs.Song     `json:"songs"`
	Reviews []reviews.Review `json:"reviews"`
}

type SongAnalytics struct {
	SongID int64  `json:"song_id"`
	Name   string `json:"name"`
	analytics.Snapshot
}

type EventAnalytics struct {
	analytics.Snapshot
	EventOnly analytics.Snapshot `json:"event_only"`
	Songs     []SongAnalytics    `json:"songs"`
}

type StatusResponse struct {
	schedule.EventStatus
	NowPlayingStatus *schedule.SongStatus `json:"now_playing_status,omitempty"`
}

// eventDashboardHandler godoc
//
//	@Summary		Event dashboard
//	@Description	The event with its programme and every review, event and song reviews together
//	@Tags			analytics
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	Dashboard
//	@Failure		403		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/dashboard [get]
func (app *application) eventDashboardHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)
	ctx := r.Context()

	programme, err := app.store.Songs.ListByEvent(ctx, event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	rs, err := app.store.Reviews.ListByEvent(ctx, event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, Dashboard{Event: event, Songs: programme, Reviews: rs}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// eventAnalyticsHandler godoc
//
//	@Summary		Event analytics
//	@Description	Aggregates over event reviews and the reviews of every song, with an event-only and per-song breakdown
//	@Tags			analytics
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	EventAnalytics
//	@Failure		403		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/analytics [get]
func (app *application) eventAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)
	ctx := r.Context()

	programme, err := app.store.Songs.ListByEvent(ctx, event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	rs, err := app.store.Reviews.ListByEvent(ctx, event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	ids := make([]int64, len(programme))
	for i, s := range programme {
		ids[i] = s.ID
	}
	perSong := analytics.BySong(ids, rs)

	out := EventAnalytics{
		Snapshot:  analytics.Compute(rs),
		EventOnly: analytics.Compute(analytics.EventOnly(rs)),
		Songs:     make([]SongAnalytics, 0, len(programme)),
	}
	for _, s := range programme {
		out.Songs = append(out.Songs, SongAnalytics{SongID: s.ID, Name: s.Name, Snapshot: perSong[s.ID]})
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// eventStatusHandler godoc
//
//	@Summary		Event status
//	@Description	Whether the event is upcoming, live or ended and which song is playing
//	@Tags			events
//	@Produce		json
//	@Param			eventID	path		int		true	"Event ID"
//	@Param			at		query		string	false	"Evaluate at this RFC 3339 instant instead of now"
//	@Success		200		{object}	StatusResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/events/{eventID}/status [get]
func (app *application) eventStatusHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)

	at, ok := params.ParseTime(r.URL.Query(), "at", app.now().UTC())
	if !ok {
		app.badRequestResponse(w, r, errors.New("at must be an RFC 3339 timestamp"))
		return
	}

	programme, err := app.store.Songs.ListByEvent(r.Context(), event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	out := StatusResponse{EventStatus: schedule.DeriveEventStatus(*event, programme, at)}
	if out.NowPlaying != nil {
		st := schedule.DeriveSongStatus(*out.NowPlaying, at)
		out.NowPlayingStatus = &st
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}
