package main

import (
	"errors"
	"net/http"
	"strings"

	"taktivent/internal/domain/collaborators"
)

type AddCollaboratorPayload struct {
	Email string             `json:"email" validate:"required,email,max=255"`
	Role  collaborators.Role `json:"role" validate:"required,oneof=editor viewer"`
}

type UpdateCollaboratorPayload struct {
	Role collaborators.Role `json:"role" validate:"required,oneof=editor viewer"`
}

// listCollaboratorsHandler godoc
//
//	@Summary		List collaborators
//	@Tags			collaborators
//	@Produce		json
//	@Param			eventID	path	int	true	"Event ID"
//	@Success		200		{array}	collaborators.Collaborator
//	@Failure		403		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/collaborators [get]
func (app *application) listCollaboratorsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Collaborators.List(r.Context(), getEventFromContext(r).ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addCollaboratorHandler godoc
//
//	@Summary		Add collaborator
//	@Description	Invites a registered user by email as editor or viewer
//	@Tags			collaborators
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int						true	"Event ID"
//	@Param			payload	body		AddCollaboratorPayload	true	"Collaborator"
//	@Success		201		{object}	collaborators.Collaborator
//	@Failure		404		{object}	ErrorResponse	"No user with that email"
//	@Failure		409		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/collaborators [post]
func (app *application) addCollaboratorHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)

	var payload AddCollaboratorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if event.OwnedBy(user.ID) {
		app.conflictResponse(w, r, errors.New("the owner cannot be added as a collaborator"))
		return
	}

	c := &collaborators.Collaborator{EventID: event.ID, UserID: user.ID, Role: payload.Role}
	if err := app.store.Collaborators.Add(r.Context(), c); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.logger.Infow("collaborator added", "event_id", event.ID, "user_id", user.ID, "role", c.Role)

	if err := app.jsonResponse(w, http.StatusCreated, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCollaboratorHandler godoc
//
//	@Summary		Change collaborator role
//	@Tags			collaborators
//	@Accept			json
//	@Produce		json
//	@Param			eventID			path		int							true	"Event ID"
//	@Param			collaboratorID	path		int							true	"Collaborator ID"
//	@Param			payload			body		UpdateCollaboratorPayload	true	"Role"
//	@Success		200				{object}	collaborators.Collaborator
//	@Failure		404				{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/collaborators/{collaboratorID} [patch]
func (app *application) updateCollaboratorHandler(w http.ResponseWriter, r *http.Request) {
	collaboratorID, err := parseIDParam(r, "collaboratorID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCollaboratorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	c, err := app.store.Collaborators.UpdateRole(r.Context(), getEventFromContext(r).ID, collaboratorID, payload.Role)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removeCollaboratorHandler godoc
//
//	@Summary		Remove collaborator
//	@Tags			collaborators
//	@Param			eventID			path	int	true	"Event ID"
//	@Param			collaboratorID	path	int	true	"Collaborator ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/collaborators/{collaboratorID} [delete]
func (app *application) removeCollaboratorHandler(w http.ResponseWriter, r *http.Request) {
	collaboratorID, err := parseIDParam(r, "collaboratorID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Collaborators.Remove(r.Context(), getEventFromContext(r).ID, collaboratorID); err != nil {
		app.storeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

