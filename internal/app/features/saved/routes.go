// internal/app/features/saved/routes.go
package saved

import (
	"github.com/go-chi/chi/v5"

	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
)

// Routes returns the router for saved snippets.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/", h.ServeSave)
	r.Get("/", h.ServeList)
	r.Delete("/{snippetID}", h.ServeDelete)

	return r
}
