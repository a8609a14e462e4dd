// internal/app/features/studyclub/namecheck.go
package studyclub

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// ServeNameAvailable handles GET /api/study-club/name-available?name=...
// It is an advisory check for the create form. Names are not unique in
// the database, so a "taken" answer here never blocks ServeCreate.
func (h *Handler) ServeNameAvailable(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	name := normalize.Name(query.Get(r, "name"))
	if name == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}
	if len(name) > maxPartyNameLen {
		httpjson.BadRequest(w, "name is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	inUse, err := h.Clubs.PartyNameInUse(ctx, name)
	if err != nil {
		h.Log.Error("party name check failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]any{"available": !inUse})
}
