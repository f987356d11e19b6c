package main

import (
	"net/http"
	"strings"
	"time"

	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/songs"
	"taktivent/internal/domain/storage"
	"taktivent/internal/params"
)

type CreateSongPayload struct {
	Name           string               `json:"name" validate:"required,max=255"`
	ComposerName   string               `json:"composer_name" validate:"required,max=255"`
	Description    *string              `json:"description" validate:"omitempty,max=5000"`
	StartAt        time.Time            `json:"start_at" validate:"required"`
	LengthInMinute int                  `json:"length_in_minute" validate:"required,min=1,max=1440"`
	EnableTextbox  *bool                `json:"enable_textbox"`
	Questions      []questions.Question `json:"questions_and_choices" validate:"omitempty,max=20,dive"`
	ImageURLs      []string             `json:"images" validate:"omitempty,max=10,dive,url"`
	PerformerIDs   []int64              `json:"performer_ids" validate:"omitempty,max=50,dive,min=1"`
}

type UpdateSongPayload struct {
	Name           *string               `json:"name" validate:"omitempty,min=1,max=255"`
	ComposerName   *string               `json:"composer_name" validate:"omitempty,min=1,max=255"`
	Description    *string               `json:"description" validate:"omitempty,max=5000"`
	StartAt        *time.Time            `json:"start_at"`
	LengthInMinute *int                  `json:"length_in_minute" validate:"omitempty,min=1,max=1440"`
	EnableTextbox  *bool                 `json:"enable_textbox"`
	Questions      *[]questions.Question `json:"questions_and_choices" validate:"omitempty,max=20,dive"`
	ImageURLs      *[]string             `json:"images" validate:"omitempty,max=10,dive,url"`
	PerformerIDs   *[]int64              `json:"performer_ids" validate:"omitempty,max=50,dive,min=1"`
}

// loadSong reads {songID} and checks it belongs to the event in context.
func (app *application) loadSong(w http.ResponseWriter, r *http.Request) (*songs.Song, bool) {
	songID, err := parseIDParam(r, "songID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	song, err := app.store.Songs.GetByID(r.Context(), getEventFromContext(r).ID, songID)
	if err != nil {
		app.storeError(w, r, err)
		return nil, false
	}
	return song, true
}

// listSongsHandler godoc
//
//	@Summary		List songs
//	@Description	The event programme ordered by start time
//	@Tags			songs
//	@Produce		json
//	@Param			eventID	path	int	true	"Event ID"
//	@Success		200		{array}	songs.Song
//	@Router			/events/{eventID}/songs [get]
func (app *application) listSongsHandler(w http.ResponseWriter, r *http.Request) {
	programme, err := app.store.Songs.ListByEvent(r.Context(), getEventFromContext(r).ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, programme); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSongHandler godoc
//
//	@Summary		Show song
//	@Tags			songs
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Param			songID	path		int	true	"Song ID"
//	@Success		200		{object}	songs.Song
//	@Failure		404		{object}	ErrorResponse
//	@Router			/events/{eventID}/songs/{songID} [get]
func (app *application) getSongHandler(w http.ResponseWriter, r *http.Request) {
	song, ok := app.loadSong(w, r)
	if !ok {
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, song); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createSongHandler godoc
//
//	@Summary		Create song
//	@Description	Adds a song to the programme. Performer ids that the event owner does not own are ignored.
//	@Tags			songs
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int					true	"Event ID"
//	@Param			payload	body		CreateSongPayload	true	"Song"
//	@Success		201		{object}	songs.Song
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/songs [post]
func (app *application) createSongHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateSongPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if err := questions.ValidateDefinitions(payload.Questions); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	event := getEventFromContext(r)
	song := &songs.Song{
		EventID:        event.ID,
		Name:           strings.TrimSpace(payload.Name),
		ComposerName:   strings.TrimSpace(payload.ComposerName),
		Description:    payload.Description,
		StartAt:        payload.StartAt,
		LengthInMinute: payload.LengthInMinute,
		EnableTextbox:  payload.EnableTextbox == nil || *payload.EnableTextbox,
		Questions:      payload.Questions,
		ImageURLs:      payload.ImageURLs,
	}

	ctx := r.Context()
	err := app.store.WithTx(ctx, func(tx *storage.Container) error {
		if err := tx.Songs.Create(ctx, song); err != nil {
			return err
		}
		if len(payload.PerformerIDs) == 0 {
			return nil
		}
		return tx.Songs.SetPerformers(ctx, event.UserID, song.ID, payload.PerformerIDs)
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	created, err := app.store.Songs.GetByID(ctx, event.ID, song.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateSongHandler godoc
//
//	@Summary		Update song
//	@Tags			songs
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int					true	"Event ID"
//	@Param			songID	path		int					true	"Song ID"
//	@Param			payload	body		UpdateSongPayload	true	"Fields to change"
//	@Success		200		{object}	songs.Song
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/songs/{songID} [patch]
func (app *application) updateSongHandler(w http.ResponseWriter, r *http.Request) {
	song, ok := app.loadSong(w, r)
	if !ok {
		return
	}

	var payload UpdateSongPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if payload.Name != nil {
		song.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.ComposerName != nil {
		song.ComposerName = strings.TrimSpace(*payload.ComposerName)
	}
	if payload.Description != nil {
		song.Description = payload.Description
	}
	if payload.StartAt != nil {
		song.StartAt = *payload.StartAt
	}
	if payload.LengthInMinute != nil {
		song.LengthInMinute = *payload.LengthInMinute
	}
	if payload.EnableTextbox != nil {
		song.EnableTextbox = *payload.EnableTextbox
	}
	if payload.Questions != nil {
		song.Questions = *payload.Questions
	}
	if payload.ImageURLs != nil {
		song.ImageURLs = *payload.ImageURLs
	}

	if err := questions.ValidateDefinitions(song.Questions); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	ctx := r.Context()
	err := app.store.WithTx(ctx, func(tx *storage.Container) error {
		if err := tx.Songs.Update(ctx, song); err != nil {
			return err
		}
		if payload.PerformerIDs == nil {
			return nil
		}
		return tx.Songs.SetPerformers(ctx, getEventFromContext(r).UserID, song.ID, *payload.PerformerIDs)
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	updated, err := app.store.Songs.GetByID(ctx, song.EventID, song.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteSongHandler godoc
//
//	@Summary		Delete song
//	@Description	Deletes the song and its reviews
//	@Tags			songs
//	@Param			eventID	path	int	true	"Event ID"
//	@Param			songID	path	int	true	"Song ID"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/songs/{songID} [delete]
func (app *application) deleteSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := parseIDParam(r, "songID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Songs.Delete(r.Context(), getEventFromContext(r).ID, songID); err != nil {
		app.storeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// searchSongsHandler godoc
//
//	@Summary		Search own songs
//	@Description	Matches song or composer names across the caller's events
//	@Tags			songs
//	@Produce		json
//	@Param			q		query	string	false	"Search text"
//	@Param			limit	query	int		false	"Max results"
//	@Success		200		{array}	songs.Song
//	@Security		ApiKeyAuth
//	@Router			/songs/search [get]
func (app *application) searchSongsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := params.ParseLimit(q, 10, 50)

	list, err := app.store.Songs.Search(r.Context(), getUserFromContext(r).ID, strings.TrimSpace(q.Get("q")), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// composersHandler godoc
//
//	@Summary		Composer autocomplete
//	@Tags			songs
//	@Produce		json
//	@Param			q		query	string	false	"Prefix or fragment"
//	@Param			limit	query	int		false	"Max results"
//	@Success		200		{array}	string
//	@Security		ApiKeyAuth
//	@Router			/songs/composers [get]
func (app *application) composersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := params.ParseLimit(q, 10, 50)

	names, err := app.store.Songs.Composers(r.Context(), getUserFromContext(r).ID, strings.TrimSpace(q.Get("q")), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, names); err != nil {
		app.internalServerError(w, r, err)
	}
}
