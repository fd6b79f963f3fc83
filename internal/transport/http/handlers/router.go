package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phoenixchat/phoenix/internal/transport/http/middleware"
)

// NewRouter mounts every API route. Identity is attached per route group:
// required for mutations and private reads, optional for public browsing.
func NewRouter(
	jwtSecret string,
	corsOrigin string,
	authHandler *AuthHandler,
	botHandler *BotHandler,
	userHandler *UserHandler,
) http.Handler {
	requireAuth := middleware.RequireAuth(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.CORS(corsOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true}`))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/bots", func(r chi.Router) {
			r.With(optionalAuth).Get("/", botHandler.List)
			r.With(optionalAuth).Get("/{id}", botHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", botHandler.Create)
				r.Patch("/{id}", botHandler.Update)
				r.Delete("/{id}", botHandler.Delete)
				r.Post("/{id}/like", botHandler.ToggleLike)
				r.Get("/{id}/messages", botHandler.ListMessages)
				r.Post("/{id}/messages", botHandler.SendMessage)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(requireAuth).Get("/me", userHandler.Me)
			r.With(optionalAuth).Get("/{username}", userHandler.GetByUsername)
		})
	})

	return r
}
