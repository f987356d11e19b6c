package main

import (
	"net/http"
	"strings"

	"taktivent/internal/domain/performers"
)

type PerformerPayload struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Bio         *string  `json:"bio" validate:"omitempty,max=5000"`
	ImageURLs   []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

type UpdatePerformerPayload struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Bio         *string   `json:"bio" validate:"omitempty,max=5000"`
	ImageURLs   *[]string `json:"images" validate:"omitempty,max=10,dive,url"`
}

// listPerformersHandler godoc
//
//	@Summary		List performers
//	@Description	Performers created by the caller
//	@Tags			performers
//	@Produce		json
//	@Success		200	{array}	performers.Performer
//	@Security		ApiKeyAuth
//	@Router			/performers [get]
func (app *application) listPerformersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Performers.ListByOwner(r.Context(), getUserFromContext(r).ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPerformerHandler godoc
//
//	@Summary		Create performer
//	@Tags			performers
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		PerformerPayload	true	"Performer"
//	@Success		201		{object}	performers.Performer
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/performers [post]
func (app *application) createPerformerHandler(w http.ResponseWriter, r *http.Request) {
	var payload PerformerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	p := &performers.Performer{
		UserID:      getUserFromContext(r).ID,
		Name:        payload.Name,
		Description: payload.Description,
		Bio:         payload.Bio,
		ImageURLs:   payload.ImageURLs,
	}
	if err := app.store.Performers.Create(r.Context(), p); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) loadPerformer(w http.ResponseWriter, r *http.Request) (*performers.Performer, bool) {
	id, err := parseIDParam(r, "performerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	p, err := app.store.Performers.GetByID(r.Context(), getUserFromContext(r).ID, id)
	if err != nil {
		app.storeError(w, r, err)
		return nil, false
	}
	return p, true
}

// getPerformerHandler godoc
//
//	@Summary		Show performer
//	@Tags			performers
//	@Produce		json
//	@Param			performerID	path		int	true	"Performer ID"
//	@Success		200			{object}	performers.Performer
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/performers/{performerID} [get]
func (app *application) getPerformerHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := app.loadPerformer(w, r)
	if !ok {
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updatePerformerHandler godoc
//
//	@Summary		Update performer
//	@Tags			performers
//	@Accept			json
//	@Produce		json
//	@Param			performerID	path		int						true	"Performer ID"
//	@Param			payload		body		UpdatePerformerPayload	true	"Fields to change"
//	@Success		200			{object}	performers.Performer
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/performers/{performerID} [patch]
func (app *application) updatePerformerHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := app.loadPerformer(w, r)
	if !ok {
		return
	}

	var payload UpdatePerformerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if payload.Name != nil {
		p.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		p.Description = payload.Description
	}
	if payload.Bio != nil {
		p.Bio = payload.Bio
	}
	if payload.ImageURLs != nil {
		p.ImageURLs = *payload.ImageURLs
	}

	if err := app.store.Performers.Update(r.Context(), p); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deletePerformerHandler godoc
//
//	@Summary		Delete performer
//	@Description	Also removes the performer from every song
//	@Tags			performers
//	@Param			performerID	path	int	true	"Performer ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/performers/{performerID} [delete]
func (app *application) deletePerformerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "performerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Performers.Delete(r.Context(), getUserFromContext(r).ID, id); err != nil {
		app.storeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
