package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studygen/studygen-api/internal/api"
	apiMiddleware "github.com/studygen/studygen-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	documentHandler := api.NewDocumentHandler(app.documentService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	materialHandler := api.NewMaterialHandler(app.documentService, app.materialService, app.logger)
	skillHandler := api.NewSkillHandler(app.skillRegistry, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Document submission and status
			r.Post("/documents", documentHandler.CreateDocument)
			r.Get("/documents/{id}", documentHandler.GetDocument)

			// Generated materials; ?format=markdown returns a rendered document
			r.Get("/documents/{id}/quiz", materialHandler.GetQuiz)
			r.Get("/documents/{id}/flashcards", materialHandler.GetFlashcards)
			r.Get("/documents/{id}/notes", materialHandler.GetNotes)
			r.Get("/documents/{id}/summary", materialHandler.GetSummary)

			// Synchronous notes-to-deck cross reference
			r.Post("/flashcards/from-notes", materialHandler.CreateFlashcardsFromNotes)

			// Skill discovery and matching
			r.Get("/skills", skillHandler.ListSkills)
			r.Get("/skills/match", skillHandler.MatchSkill)
			r.Get("/skills/{name}", skillHandler.GetSkill)

			// Account management
			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me/email", userHandler.UpdateEmail)
			r.Put("/users/me/password", userHandler.UpdatePassword)
			r.Delete("/users/me", userHandler.DeleteMe)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
