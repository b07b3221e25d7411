package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/tournament-standings/handlers"
	"github.com/Dosada05/tournament-standings/middleware"
	"github.com/Dosada05/tournament-standings/session"
)

const requestTimeout = 30 * time.Second

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Session    *handlers.SessionHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
	Metrics    http.Handler
}

type Options struct {
	Provider       *session.Provider
	Limiter        *middleware.IPRateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Standings-Stale"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Health)
	router.Handle("/metrics", h.Metrics)

	// Websocket connections are long-lived and must not get the request timeout.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(opts.Provider, opts.Logger)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/view", h.Tournament.GetView)
			r.Get("/standings", h.Tournament.GetStandings)
			r.Get("/standings/export", h.Tournament.ExportStandings)
			r.Get("/bracket", h.Tournament.GetBracket)
			r.Get("/completion", h.Tournament.GetCompletion)
			r.Get("/grid", h.Tournament.GetGrid)
			r.Get("/swiss", h.Tournament.GetSwiss)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				if opts.Limiter != nil {
					r.Use(middleware.RateLimit(opts.Limiter))
				}
				r.Post("/advance", h.Tournament.Advance)
				r.Post("/matches/{matchID}/score", h.Tournament.SubmitScore)
			})
		})

		r.With(authenticate).Post("/session/logout", h.Session.Logout)
	})
}
