package api

import (
	"net/http"

	"github.com/dom/deckbuilder-web/internal/api/handlers"
	"github.com/dom/deckbuilder-web/internal/api/middleware"
	"github.com/dom/deckbuilder-web/internal/service"
	"github.com/dom/deckbuilder-web/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	cardHandler := handlers.NewCardHandler(services.Catalog)
	investigatorHandler := handlers.NewInvestigatorHandler(services.Catalog)
	deckHandler := handlers.NewDeckHandler(services.Deck)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Catalog routes (public)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.Search)
			r.Get("/{code}", cardHandler.Get)
			r.Get("/{code}/customizations", cardHandler.GetCustomizations)
			r.Post("/import", cardHandler.Import) // Should be admin-only in production
		})
		r.Route("/investigators", func(r chi.Router) {
			r.Get("/", investigatorHandler.GetAll)
			r.Get("/{code}", investigatorHandler.Get)
		})
		r.Get("/taboo-lists", cardHandler.GetTabooLists)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Deck routes
			r.Route("/decks", func(r chi.Router) {
				r.Post("/", deckHandler.Create)
				r.Get("/", deckHandler.List)
				r.Get("/{id}", deckHandler.Get)
				r.Put("/{id}", deckHandler.Rename)
				r.Delete("/{id}", deckHandler.Delete)
				r.Post("/{id}/actions", deckHandler.Apply)
				r.Get("/{id}/validation", deckHandler.GetValidation)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
