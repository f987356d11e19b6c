package main

import (
	"errors"
	"net/http"
	"strings"

	"taktivent/internal/domain/users"
)

// getCurrentUserHandler godoc
//
//	@Summary		Current user
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		401	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, getUserFromContext(r)); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateProfilePayload struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
}

// updateProfileHandler godoc
//
//	@Summary		Update profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateProfilePayload	true	"Fields to change"
//	@Success		200		{object}	users.User
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/profile [put]
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateProfilePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := *getUserFromContext(r)
	if payload.FirstName != nil {
		user.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = strings.TrimSpace(*payload.LastName)
	}
	if payload.Email != nil {
		user.Email = strings.TrimSpace(*payload.Email)
	}

	if err := app.store.Users.UpdateProfile(r.Context(), &user); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, &user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password" validate:"required,max=72"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// changePasswordHandler godoc
//
//	@Summary		Change password
//	@Description	Requires the current password. Signs the user out of other sessions.
//	@Tags			profile
//	@Accept			json
//	@Param			payload	body	ChangePasswordPayload	true	"Passwords"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/profile/password [put]
func (app *application) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var payload ChangePasswordPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if err := user.Password.Compare(payload.CurrentPassword); err != nil {
		app.unauthorizedErrorResponse(w, r, errors.New("current password does not match"))
		return
	}

	updated := &users.User{ID: user.ID}
	if err := updated.Password.Set(payload.NewPassword); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.UpdatePassword(r.Context(), updated); err != nil {
		app.storeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// attendedEventsHandler godoc
//
//	@Summary		Events the user reviewed
//	@Description	Lists events the signed-in user left a review on, directly or on one of their songs
//	@Tags			profile
//	@Produce		json
//	@Success		200	{array}	events.Event
//	@Security		ApiKeyAuth
//	@Router			/profile/attended_events [get]
func (app *application) attendedEventsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Events.ListAttended(r.Context(), getUserFromContext(r).ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler godoc
//
//	@Summary		Logout
//	@Description	Drops the stored refresh token
//	@Tags			profile
//	@Success		204
//	@Security		ApiKeyAuth
//	@Router			/profile/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.store.Users.DeleteRefreshToken(r.Context(), getUserFromContext(r).ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
