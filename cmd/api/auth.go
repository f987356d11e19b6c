package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"taktivent/internal/auth"
	"taktivent/internal/domain/users"
	"taktivent/internal/mailer"
)

// ErrorResponse is the body of every failed request.
//
//	@name			ErrorResponse
//	@description	Standard error response format returned by all API endpoints
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"event not found"`
	Status  int    `json:"status" example:"404"`
}

type RegisterUserPayload struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates an organizer account
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"User credentials"
//	@Success		201		{object}	users.User			"User registered"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/authentication/user [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := &users.User{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Email:     strings.TrimSpace(payload.Email),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.logger.Infow("user registered", "user_id", user.ID)

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateUserTokenPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}

// issueTokens signs a new pair and stores the refresh token, replacing any
// previous one.
func (app *application) issueTokens(w http.ResponseWriter, r *http.Request, userID int64) {
	accessToken, refreshToken, err := app.authenticator.GenerateTokens(userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.SaveRefreshToken(r.Context(), userID, refreshToken); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       userID,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createTokenHandler godoc
//
//	@Summary		Login to get tokens
//	@Description	Exchanges email and password for an access and a refresh token
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateUserTokenPayload	true	"User credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/authentication/token [post]
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateUserTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			app.unauthorizedErrorResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	app.issueTokens(w, r, user.ID)
}

type RefreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// refreshTokenHandler godoc
//
//	@Summary		Refresh authentication tokens
//	@Description	Validates the refresh token and rotates both tokens
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RefreshPayload	true	"Refresh token payload"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/authentication/refresh [post]
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RefreshPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	token, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil || !token.Valid {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid refresh token"))
		return
	}

	userID, ok := auth.UserID(token)
	if !ok {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid sub claim"))
		return
	}

	savedToken, err := app.store.Users.GetRefreshToken(r.Context(), userID)
	if err != nil || savedToken == "" || savedToken != payload.RefreshToken {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("refresh token mismatch"))
		return
	}

	app.issueTokens(w, r, userID)
}

type RequestResetPasswordPayload struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// requestResetPasswordHandler godoc
//
//	@Summary		Request password reset
//	@Description	Emails a reset link. The response is the same whether or not the email is registered.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RequestResetPasswordPayload	true	"User email"
//	@Success		202		{object}	map[string]string
//	@Failure		400		{object}	ErrorResponse
//	@Router			/authentication/password [post]
func (app *application) requestResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var payload RequestResetPasswordPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	accepted := map[string]string{"message": "if the email is registered, a reset link is on its way"}
	ctx := r.Context()

	user, err := app.store.Users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.jsonResponse(w, http.StatusAccepted, accepted)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	resetToken := uuid.New().String()
	expires := app.now().UTC().Add(app.config.mail.resetExp)

	if err := app.store.Users.SetResetToken(ctx, user.ID, users.HashToken(resetToken), expires); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	vars := struct {
		Username  string
		ResetURL  string
		ExpiresIn string
	}{
		Username:  user.FirstName,
		ResetURL:  fmt.Sprintf("%s/reset-password?token=%s", app.config.frontendURL, resetToken),
		ExpiresIn: app.config.mail.resetExp.String(),
	}

	status, err := app.mailer.Send(mailer.ResetPasswordTemplate, user.FullName(), user.Email, vars)
	if err != nil {
		app.logger.Errorw("error sending reset password email", "error", err)
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("reset password email sent", "status code", status)

	if err := app.jsonResponse(w, http.StatusAccepted, accepted); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ResetPasswordPayload struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// resetPasswordHandler godoc
//
//	@Summary		Reset password
//	@Description	Sets a new password using the token from the reset email
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	ResetPasswordPayload	true	"Reset password details"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Router			/authentication/password [put]
func (app *application) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var payload ResetPasswordPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := &users.User{}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	err := app.store.Users.ResetPassword(r.Context(), users.HashToken(payload.Token), user, app.now().UTC())
	if err != nil {
		if errors.Is(err, users.ErrInvalidResetToken) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("password reset", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
