package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"userdesk/internal/delivery/http/handler"
	"userdesk/internal/delivery/http/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	User *handler.UserHandler
}

// Options configures cross-cutting middleware
type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Setup configures all routes for the application
func Setup(handlers Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(chimw.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowedOrigins: origins}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handler.Health)

		if handlers.User != nil {
			handlers.User.RegisterRoutes(api)
		}
	})

	return r
}
