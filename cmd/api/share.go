package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taktivent/internal/domain/events"
	"taktivent/internal/qrcode"
	"taktivent/internal/sharelink"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// eventQRCodeHandler godoc
//
//	@Summary		Event QR code
//	@Description	SVG QR code pointing at the public page of the event
//	@Tags			events
//	@Produce		image/svg+xml
//	@Param			eventID	path	int	true	"Event ID"
//	@Param			size	query	int	false	"Width and height in pixels"	minimum(64)	maximum(1024)	default(256)
//	@Success		200
//	@Failure		403	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/qr_code [get]
func (app *application) eventQRCodeHandler(w http.ResponseWriter, r *http.Request) {
	event := getEventFromContext(r)

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			app.badRequestResponse(w, r, errors.New("size must be between 64 and 1024"))
			return
		}
		size = n
	}

	url, err := app.share.EventURL(event.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	svg, err := qrcode.SVG(url, size)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// resolveShareCodeHandler godoc
//
//	@Summary		Resolve share code
//	@Description	Looks up the event behind a short public code
//	@Tags			events
//	@Produce		json
//	@Param			code	path		string	true	"Share code"
//	@Success		200		{object}	EventDetail
//	@Failure		404		{object}	ErrorResponse
//	@Router			/share/{code} [get]
func (app *application) resolveShareCodeHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := app.share.Decode(chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, sharelink.ErrInvalidCode) {
			app.notFoundResponse(w, r, events.ErrNotFound)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	event, err := app.store.Events.GetByID(r.Context(), eventID)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	detail, err := app.eventDetail(r.Context(), event)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}
