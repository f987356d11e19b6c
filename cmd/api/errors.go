package main

import (
	"errors"
	"net/http"

	"taktivent/internal/domain/collaborators"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/questions"
	"taktivent/internal/domain/reviews"
	"taktivent/internal/domain/songs"
	"taktivent/internal/domain/templates"
	"taktivent/internal/domain/users"
	"taktivent/internal/domain/venues"
	"taktivent/internal/media"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("validation failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after "+retryAfter+"s")
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("service unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusServiceUnavailable, err.Error())
}

// storeError maps domain errors to responses; anything unknown is a 500.
func (app *application) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reviewErr   *reviews.ValidationError
		questionErr *questions.ValidationError
	)

	switch {
	case errors.As(err, &reviewErr), errors.As(err, &questionErr), errors.Is(err, events.ErrInvalidRange):
		app.failedValidationResponse(w, r, err)
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, songs.ErrNotFound),
		errors.Is(err, reviews.ErrNotFound),
		errors.Is(err, venues.ErrNotFound),
		errors.Is(err, performers.ErrNotFound),
		errors.Is(err, collaborators.ErrNotFound),
		errors.Is(err, templates.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, performers.ErrConflict),
		errors.Is(err, collaborators.ErrAlreadyExists),
		errors.Is(err, templates.ErrDuplicate),
		errors.Is(err, users.ErrDuplicateEmail):
		app.conflictResponse(w, r, err)
	case errors.Is(err, media.ErrUnavailable):
		app.serviceUnavailableResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
