package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"taktivent/internal/domain/events"
	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/templates"
	"taktivent/internal/domain/venues"
)

func TestPerformers(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "owner@example.com")
	_, otherToken := env.seedUser(t, "other@example.com")

	rr := env.do(t, http.MethodPost, "/v1/performers", token, map[string]any{
		"name":        "  Clara Wieck ",
		"description": "piano",
		"images":      []string{"https://img.example.com/clara.jpg"},
	})
	checkStatus(t, rr, http.StatusCreated)

	var created performers.Performer
	decodeData(t, rr, &created)
	if created.Name != "Clara Wieck" {
		t.Errorf("name = %q, want trimmed", created.Name)
	}
	path := fmt.Sprintf("/v1/performers/%d", created.ID)

	t.Run("duplicate name and description conflicts", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/v1/performers", token, map[string]any{
			"name":        "Clara Wieck",
			"description": "piano",
		})
		checkStatus(t, rr, http.StatusConflict)
	})

	t.Run("invalid image url", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/v1/performers", token, map[string]any{
			"name":   "Robert",
			"images": []string{"not a url"},
		})
		checkStatus(t, rr, http.StatusUnprocessableEntity)
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		checkStatus(t, env.do(t, http.MethodGet, path, otherToken, nil), http.StatusNotFound)

		rr := env.do(t, http.MethodGet, "/v1/performers", otherToken, nil)
		checkStatus(t, rr, http.StatusOK)
		var list []performers.Performer
		decodeData(t, rr, &list)
		if len(list) != 0 {
			t.Errorf("got %d performers, want 0", len(list))
		}
	})

	t.Run("update keeps untouched fields", func(t *testing.T) {
		rr := env.do(t, http.MethodPatch, path, token, map[string]any{"bio": "Born 1819"})
		checkStatus(t, rr, http.StatusOK)

		var updated performers.Performer
		decodeData(t, rr, &updated)
		if updated.Bio == nil || *updated.Bio != "Born 1819" {
			t.Errorf("bio = %v", updated.Bio)
		}
		if updated.Description == nil || *updated.Description != "piano" {
			t.Errorf("description = %v, want unchanged", updated.Description)
		}
		if len(updated.ImageURLs) != 1 {
			t.Errorf("images = %v, want unchanged", updated.ImageURLs)
		}
	})

	t.Run("delete", func(t *testing.T) {
		checkStatus(t, env.do(t, http.MethodDelete, path, otherToken, nil), http.StatusNotFound)
		checkStatus(t, env.do(t, http.MethodDelete, path, token, nil), http.StatusNoContent)
		checkStatus(t, env.do(t, http.MethodGet, path, token, nil), http.StatusNotFound)
	})
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "owner@example.com")

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing name", map[string]any{"template_data": map[string]any{}}, http.StatusUnprocessableEntity},
		{"data is an array", map[string]any{"name": "Gala", "template_data": []int{1}}, http.StatusUnprocessableEntity},
		{"data missing", map[string]any{"name": "Gala"}, http.StatusUnprocessableEntity},
		{"unknown field", `{"name":"Gala","template_data":{},"colour":"red"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkStatus(t, env.do(t, http.MethodPost, "/v1/event_templates", token, tt.body), tt.want)
		})
	}

	rr := env.do(t, http.MethodPost, "/v1/event_templates", token, map[string]any{
		"name":          "Gala",
		"template_data": map[string]any{"enable_textbox": false},
	})
	checkStatus(t, rr, http.StatusCreated)

	var created templates.Template
	decodeData(t, rr, &created)
	path := fmt.Sprintf("/v1/event_templates/%d", created.ID)

	checkStatus(t, env.do(t, http.MethodPost, "/v1/event_templates", token, map[string]any{
		"name":          "Gala",
		"template_data": map[string]any{},
	}), http.StatusConflict)

	rr = env.do(t, http.MethodPut, path, token, map[string]any{
		"name":          "Winter Gala",
		"template_data": map[string]any{"enable_textbox": true},
	})
	checkStatus(t, rr, http.StatusOK)

	rr = env.do(t, http.MethodGet, "/v1/event_templates", token, nil)
	checkStatus(t, rr, http.StatusOK)
	var list []templates.Template
	decodeData(t, rr, &list)
	if len(list) != 1 || list[0].Name != "Winter Gala" {
		t.Fatalf("templates = %+v", list)
	}
	if string(list[0].Data) != `{"enable_textbox":true}` {
		t.Errorf("template_data = %s", list[0].Data)
	}

	checkStatus(t, env.do(t, http.MethodDelete, path, token, nil), http.StatusNoContent)
	checkStatus(t, env.do(t, http.MethodGet, path, token, nil), http.StatusNotFound)
}

func TestVenues(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "owner@example.com")

	body := map[string]any{"name": "Town Hall", "address": "1 Main St", "latitude": 52.1, "longitude": 4.3}

	checkStatus(t, env.do(t, http.MethodPost, "/v1/venues", "", body), http.StatusUnauthorized)

	rr := env.do(t, http.MethodPost, "/v1/venues", token, body)
	checkStatus(t, rr, http.StatusCreated)
	var first venues.Venue
	decodeData(t, rr, &first)

	rr = env.do(t, http.MethodPost, "/v1/venues", token, map[string]any{"name": "Town Hall", "address": "1 Main St"})
	checkStatus(t, rr, http.StatusCreated)
	var second venues.Venue
	decodeData(t, rr, &second)
	if second.ID != first.ID {
		t.Errorf("same name and address gave venue %d, want %d", second.ID, first.ID)
	}

	checkStatus(t, env.do(t, http.MethodPost, "/v1/venues", token, map[string]any{"name": "Pier", "latitude": 123.0}),
		http.StatusUnprocessableEntity)

	rr = env.do(t, http.MethodGet, "/v1/venues", "", nil)
	checkStatus(t, rr, http.StatusOK)
	var list []venues.Venue
	decodeData(t, rr, &list)
	if len(list) != 1 {
		t.Errorf("got %d venues, want 1", len(list))
	}

	checkStatus(t, env.do(t, http.MethodGet, fmt.Sprintf("/v1/venues/%d", first.ID), "", nil), http.StatusOK)
	checkStatus(t, env.do(t, http.MethodGet, "/v1/venues/999", "", nil), http.StatusNotFound)
	checkStatus(t, env.do(t, http.MethodGet, "/v1/venues/abc", "", nil), http.StatusBadRequest)
}

func TestCreateEventReusesVenue(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "owner@example.com")

	start := testNow.Add(24 * time.Hour)
	create := func() events.Event {
		rr := env.do(t, http.MethodPost, "/v1/events", token, map[string]any{
			"name":     "Matinee",
			"start_at": start,
			"end_at":   start.Add(time.Hour),
			"venue":    map[string]any{"name": "Town Hall"},
		})
		checkStatus(t, rr, http.StatusCreated)

		var e events.Event
		decodeData(t, rr, &e)
		return e
	}

	a, b := create(), create()
	if a.Venue == nil || b.Venue == nil {
		t.Fatalf("venue missing from response")
	}
	if a.Venue.ID != b.Venue.ID {
		t.Errorf("venues %d and %d, want the same venue", a.Venue.ID, b.Venue.ID)
	}
}
