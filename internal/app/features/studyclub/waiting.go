// internal/app/features/studyclub/waiting.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/partycode"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// ServeWaiting handles GET /api/study-club/waiting/{partyCode}.
// Tells a user where their join request stands, which the waiting
// screen polls between notification events.
func (h *Handler) ServeWaiting(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	code := normalize.PartyCode(chi.URLParam(r, "partyCode"))
	if !partycode.Valid(code) {
		httpjson.BadRequest(w, "invalid party code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	club, err := h.Clubs.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			httpjson.NotFound(w, "study club not found")
			return
		}
		h.Log.Error("load club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	status := "not_requested"
	switch {
	case club.IsMember(userID):
		status = "approved"
	case club.IsPending(userID):
		status = "pending"
	}

	httpjson.OK(w, map[string]string{
		"party_code": code,
		"status":     status,
	})
}
