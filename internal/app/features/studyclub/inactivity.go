// internal/app/features/studyclub/inactivity.go
package studyclub

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// ServeHeartbeat handles POST /api/study-club/heartbeat.
// The admin's client pings this while the club screen is open; the
// timestamp is what the inactivity check reads later.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	club, err := h.Clubs.GetByAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			httpjson.Forbidden(w, "you do not admin a study club")
			return
		}
		h.Log.Error("load admin club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Tracker.Touch(ctx, club.PartyCode); err != nil {
		h.Log.Warn("record heartbeat failed",
			zap.String("party_code", club.PartyCode),
			zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]string{"status": "ok"})
}

// ServeCheckInactive handles POST /api/study-club/check-inactive.
// Any member can ask whether the admin went silent. A club whose
// admin has not pinged within the threshold is torn down on the spot,
// the same way expiry tears it down.
func (h *Handler) ServeCheckInactive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	club, err := h.clubForUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			httpjson.NotFound(w, "you are not in a study club")
			return
		}
		h.Log.Error("load club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if !club.IsMember(userID) {
		httpjson.Forbidden(w, "you are not a member of this club")
		return
	}

	lastSeen, found, err := h.Tracker.LastSeen(ctx, club.PartyCode)
	if err != nil {
		h.Log.Error("read activity record failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	// A club with no heartbeat yet gets the benefit of the doubt for
	// its creation window.
	if !found {
		lastSeen = club.CreatedAt
	}

	idle := time.Since(lastSeen)
	if idle < h.InactiveThreshold {
		httpjson.OK(w, map[string]any{
			"dismissed":    false,
			"last_seen":    lastSeen.UTC(),
			"idle_seconds": int(idle.Seconds()),
		})
		return
	}

	if _, err := h.Clubs.DeleteByCode(ctx, club.PartyCode); err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			// Someone else already tore it down.
			httpjson.OK(w, map[string]any{"dismissed": true})
			return
		}
		h.Log.Error("delete inactive club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.teardownClub(ctx, club.PartyCode, "inactive")

	h.Log.Info("study club dismissed for inactivity",
		zap.String("party_code", club.PartyCode),
		zap.Duration("idle", idle))

	httpjson.OK(w, map[string]any{"dismissed": true})
}
