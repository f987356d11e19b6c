package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"taktivent/docs" //this is required to generate swagger docs
	"taktivent/internal/auth"
	"taktivent/internal/domain/storage"
	"taktivent/internal/mailer"
	"taktivent/internal/media"
	"taktivent/internal/metrics"
	"taktivent/internal/ratelimiter"
	"taktivent/internal/sharelink"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	media         *media.Service
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	share         *sharelink.Codec
	now           func() time.Time
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	cloudinary  media.Credentials
	shareSalt   string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	resetExp  time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Handle("/metrics", promhttp.Handler())

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
			r.Post("/password", app.requestResetPasswordHandler)
			r.Put("/password", app.resetPasswordHandler)
		})

		r.With(app.AuthTokenMiddleware).Get("/me", app.getCurrentUserHandler)

		r.Route("/profile", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getCurrentUserHandler)
			r.Put("/", app.updateProfileHandler)
			r.Put("/password", app.changePasswordHandler)
			r.Get("/attended_events", app.attendedEventsHandler)
			r.Post("/logout", app.logoutHandler)
		})

		r.Get("/share/{code}", app.resolveShareCodeHandler)

		r.Route("/events", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Get("/", app.listEventsHandler)
			r.With(app.AuthTokenMiddleware).Post("/", app.createEventHandler)
			r.With(app.AuthTokenMiddleware).Get("/stats", app.eventStatsHandler)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Use(app.eventsContextMiddleware)

				r.Get("/", app.getEventHandler)
				r.Get("/status", app.eventStatusHandler)
				r.Get("/songs", app.listSongsHandler)
				r.Get("/songs/{songID}", app.getSongHandler)

				r.Group(func(r chi.Router) {
					r.Use(app.OptionalAuthMiddleware)
					r.Use(app.RateLimiterMiddleware)
					r.Post("/reviews", app.createEventReviewHandler)
					r.Post("/songs/{songID}/reviews", app.createSongReviewHandler)
				})

				r.Group(func(r chi.Router) {
					r.Use(app.AuthTokenMiddleware)

					r.Group(func(r chi.Router) {
						r.Use(app.requireEventRole(roleViewer))
						r.Get("/dashboard", app.eventDashboardHandler)
						r.Get("/analytics", app.eventAnalyticsHandler)
						r.Get("/qr_code", app.eventQRCodeHandler)
					})

					r.Group(func(r chi.Router) {
						r.Use(app.requireEventRole(roleEditor))
						r.Patch("/", app.updateEventHandler)
						r.Post("/songs", app.createSongHandler)
						r.Patch("/songs/{songID}", app.updateSongHandler)
						r.Delete("/songs/{songID}", app.deleteSongHandler)
					})

					r.Group(func(r chi.Router) {
						r.Use(app.requireEventRole(roleOwner))
						r.Delete("/", app.deleteEventHandler)
						r.Post("/duplicate", app.duplicateEventHandler)
						r.Post("/reviews/{reviewID}/reply", app.replyEventReviewHandler)
						r.Post("/songs/{songID}/reviews/{reviewID}/reply", app.replySongReviewHandler)

						r.Route("/collaborators", func(r chi.Router) {
							r.Get("/", app.listCollaboratorsHandler)
							r.Post("/", app.addCollaboratorHandler)
							r.Patch("/{collaboratorID}", app.updateCollaboratorHandler)
							r.Delete("/{collaboratorID}", app.removeCollaboratorHandler)
						})
					})
				})
			})
		})

		r.Route("/songs", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/search", app.searchSongsHandler)
			r.Get("/composers", app.composersHandler)
		})

		r.Route("/performers", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listPerformersHandler)
			r.Post("/", app.createPerformerHandler)
			r.Get("/{performerID}", app.getPerformerHandler)
			r.Patch("/{performerID}", app.updatePerformerHandler)
			r.Delete("/{performerID}", app.deletePerformerHandler)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)
			r.Get("/{venueID}", app.getVenueHandler)
			r.With(app.AuthTokenMiddleware).Post("/", app.createVenueHandler)
		})

		r.Route("/event_templates", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listTemplatesHandler)
			r.Post("/", app.createTemplateHandler)
			r.Get("/{templateID}", app.getTemplateHandler)
			r.Put("/{templateID}", app.updateTemplateHandler)
			r.Delete("/{templateID}", app.deleteTemplateHandler)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.uploadImageHandler)
			r.Delete("/", app.deleteImageHandler)
			r.Post("/presigned", app.presignUploadHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
