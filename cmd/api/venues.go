package main

import "net/http"

// listVenuesHandler godoc
//
//	@Summary		List venues
//	@Tags			venues
//	@Produce		json
//	@Success		200	{array}	venues.Venue
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Venues.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueHandler godoc
//
//	@Summary		Show venue
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	venues.Venue
//	@Failure		404		{object}	ErrorResponse
//	@Router			/venues/{venueID} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v, err := app.store.Venues.GetByID(r.Context(), id)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, v); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createVenueHandler godoc
//
//	@Summary		Create venue
//	@Description	Returns the existing venue when one with the same name and address is already known
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		VenuePayload	true	"Venue"
//	@Success		201		{object}	venues.Venue
//	@Failure		422		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload VenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	v, err := resolveVenue(r, app.store.Venues, &payload)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, v); err != nil {
		app.internalServerError(w, r, err)
	}
}
