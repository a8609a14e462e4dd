// internal/app/features/studyclub/routes.go
package studyclub

import (
	"github.com/go-chi/chi/v5"

	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
)

// Routes returns the router for study club endpoints. Everything here
// requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/create", h.ServeCreate)
	r.Get("/name-available", h.ServeNameAvailable)
	r.Post("/join", h.ServeJoin)
	r.Get("/member", h.ServeMember)
	r.Get("/waiting/{partyCode}", h.ServeWaiting)

	r.Post("/requests/approve", h.ServeApprove)
	r.Post("/requests/reject", h.ServeReject)
	r.Post("/kick", h.ServeKick)
	r.Post("/leave-club", h.ServeLeave)
	r.Post("/transfer-admin", h.ServeTransferAdmin)
	r.Post("/dismiss", h.ServeDismiss)

	r.Get("/notifications", h.ServeNotifications)
	r.Post("/notifications", h.ServeTrigger)

	r.Post("/heartbeat", h.ServeHeartbeat)
	r.Post("/check-inactive", h.ServeCheckInactive)
	r.Get("/media-token", h.ServeMediaToken)

	return r
}
