// internal/app/features/studyclub/create.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

const maxPartyNameLen = 60

type createRequest struct {
	PartyName string `json:"party_name"`
}

// ServeCreate handles POST /api/study-club/create.
// The caller becomes admin of a fresh club and its first member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	partyName := normalize.Name(req.PartyName)
	if partyName == "" {
		httpjson.BadRequest(w, "party_name is required")
		return
	}
	if len(partyName) > maxPartyNameLen {
		httpjson.BadRequest(w, "party_name is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	club, err := h.Clubs.Create(ctx, userID, partyName)
	if err != nil {
		if errors.Is(err, clubstore.ErrAdminHasClub) {
			httpjson.Conflict(w, "you already admin a study club")
			return
		}
		h.Log.Error("create club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Users.SetPartyCode(ctx, userID, club.PartyCode); err != nil {
		h.Log.Warn("set party code on creator failed",
			zap.String("party_code", club.PartyCode),
			zap.Error(err))
	}

	h.Log.Info("study club created",
		zap.String("party_code", club.PartyCode),
		zap.String("party_name", club.PartyName),
		zap.String("admin_id", userID.Hex()))

	httpjson.Write(w, http.StatusCreated, h.clubView(ctx, club, userID))
}
