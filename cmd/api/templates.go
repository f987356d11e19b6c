package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"taktivent/internal/domain/templates"
)

type TemplatePayload struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Data        json.RawMessage `json:"template_data" validate:"required" swaggertype:"object"`
}

func (p *TemplatePayload) validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate.Struct(p); err != nil {
		return err
	}
	if len(p.Data) == 0 || !json.Valid(p.Data) || p.Data[0] != '{' {
		return errors.New("template_data must be a JSON object")
	}
	return nil
}

// listTemplatesHandler godoc
//
//	@Summary		List event templates
//	@Tags			templates
//	@Produce		json
//	@Success		200	{array}	templates.Template
//	@Security		ApiKeyAuth
//	@Router			/event_templates [get]
func (app *application) listTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Templates.List(r.Context(), getUserFromContext(r).ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createTemplateHandler godoc
//
//	@Summary		Create event template
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		TemplatePayload	true	"Template"
//	@Success		201		{object}	templates.Template
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/event_templates [post]
func (app *application) createTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var payload TemplatePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.validate(); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	t := &templates.Template{
		UserID:      getUserFromContext(r).ID,
		Name:        payload.Name,
		Description: payload.Description,
		Data:        payload.Data,
	}
	if err := app.store.Templates.Create(r.Context(), t); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, t); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getTemplateHandler godoc
//
//	@Summary		Show event template
//	@Tags			templates
//	@Produce		json
//	@Param			templateID	path		int	true	"Template ID"
//	@Success		200			{object}	templates.Template
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/event_templates/{templateID} [get]
func (app *application) getTemplateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	t, err := app.store.Templates.GetByID(r.Context(), getUserFromContext(r).ID, id)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, t); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateTemplateHandler godoc
//
//	@Summary		Replace event template
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			templateID	path		int				true	"Template ID"
//	@Param			payload		body		TemplatePayload	true	"Template"
//	@Success		200			{object}	templates.Template
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/event_templates/{templateID} [put]
func (app *application) updateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload TemplatePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.validate(); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	t := &templates.Template{
		ID:          id,
		UserID:      getUserFromContext(r).ID,
		Name:        payload.Name,
		Description: payload.Description,
		Data:        payload.Data,
	}
	if err := app.store.Templates.Update(r.Context(), t); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, t); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteTemplateHandler godoc
//
//	@Summary		Delete event template
//	@Tags			templates
//	@Param			templateID	path	int	true	"Template ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/event_templates/{templateID} [delete]
func (app *application) deleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Templates.Delete(r.Context(), getUserFromContext(r).ID, id); err != nil {
		app.storeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
