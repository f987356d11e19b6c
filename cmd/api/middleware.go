package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"taktivent/internal/auth"
	"taktivent/internal/domain/collaborators"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/users"
	"taktivent/internal/metrics"
)

type ctxKey string

const (
	userCtx  ctxKey = "user"
	eventCtx ctxKey = "event"
)

func getUserFromContext(r *http.Request) *users.User {
	user, _ := r.Context().Value(userCtx).(*users.User)
	return user
}

func getEventFromContext(r *http.Request) *events.Event {
	event, _ := r.Context().Value(eventCtx).(*events.Event)
	return event
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// userFromBearer resolves the Authorization header to a user. found is
// false when no header was sent at all.
func (app *application) userFromBearer(r *http.Request) (user *users.User, found bool, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, true, fmt.Errorf("authorization header is malformed")
	}

	jwtToken, err := app.authenticator.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, true, err
	}

	userID, ok := auth.UserID(jwtToken)
	if !ok {
		return nil, true, fmt.Errorf("invalid sub claim")
	}

	user, err = app.store.Users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, true, err
	}
	return user, true, nil
}

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, found, err := app.userFromBearer(r)
		if !found {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
			return
		}
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the user when a valid bearer token is sent
// and lets anonymous requests through. A token that is sent but invalid is
// still rejected.
func (app *application) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, found, err := app.userFromBearer(r)
		if !found {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				metrics.APIRateLimitHits.WithLabelValues(chi.RouteContext(r.Context()).RoutePattern()).Inc()
				app.rateLimitExceededResponse(w, r, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port so every connection from one host shares a window.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (app *application) eventsContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid event id"))
			return
		}

		event, err := app.store.Events.GetByID(r.Context(), eventID)
		if err != nil {
			app.storeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), eventCtx, event)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type eventRole int

const (
	roleViewer eventRole = iota + 1
	roleEditor
	roleOwner
)

// roleOf is the caller's standing on an event; 0 means none.
func (app *application) roleOf(ctx context.Context, event *events.Event, user *users.User) (eventRole, error) {
	if user == nil {
		return 0, nil
	}
	if event.OwnedBy(user.ID) {
		return roleOwner, nil
	}

	role, err := app.store.Collaborators.RoleFor(ctx, event.ID, user.ID)
	if err != nil {
		if errors.Is(err, collaborators.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if role.CanEdit() {
		return roleEditor, nil
	}
	return roleViewer, nil
}

// requireEventRole must run after eventsContextMiddleware and AuthTokenMiddleware.
func (app *application) requireEventRole(min eventRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := app.roleOf(r.Context(), getEventFromContext(r), getUserFromContext(r))
			if err != nil {
				app.internalServerError(w, r, err)
				return
			}
			if role < min {
				app.forbiddenResponse(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
