package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/synapse-srs/synapse-api/internal/api"
	apiMiddleware "github.com/synapse-srs/synapse-api/internal/api/middleware"
)

// setupRouter registers every route and the middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.DebugErrors(app.config.Server.DebugErrors))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.reviewService, app.logger)
	noteHandler := api.NewNoteHandler(app.noteService, app.cardService, app.logger)
	relationHandler := api.NewRelationHandler(app.relationService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	healthHandler := api.NewHealthHandler(app.db)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardHandler.ListCards)
				r.Post("/", cardHandler.CreateCard)
				r.Get("/review", cardHandler.ListDueCards)
				r.Get("/{id}", cardHandler.GetCard)
				r.Put("/{id}", cardHandler.UpdateCard)
				r.Delete("/{id}", cardHandler.DeleteCard)
				r.Put("/{id}/review", cardHandler.ReviewCard)
				r.Get("/{id}/reviews", cardHandler.ListCardReviews)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.ListNotes)
				r.Post("/", noteHandler.CreateNote)
				r.Get("/{id}", noteHandler.GetNote)
				r.Put("/{id}", noteHandler.UpdateNote)
				r.Delete("/{id}", noteHandler.DeleteNote)
				r.Get("/{id}/cards", noteHandler.ListNoteCards)
				r.Post("/{id}/cards", noteHandler.CreateCardFromNote)
				r.Post("/{id}/cards/generate", noteHandler.GenerateCards)
			})

			r.Route("/relations", func(r chi.Router) {
				r.Get("/", relationHandler.ListRelations)
				r.Post("/", relationHandler.CreateRelation)
				r.Get("/note/{id}", relationHandler.ListRelationsByNote)
				r.Get("/type/{type}", relationHandler.ListRelationsByType)
				r.Get("/{id}", relationHandler.GetRelation)
				r.Put("/{id}", relationHandler.UpdateRelation)
				r.Delete("/{id}", relationHandler.DeleteRelation)
			})

			r.Get("/reviews", reviewHandler.ListReviews)
		})
	})

	return r
}
