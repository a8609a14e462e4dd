// internal/app/features/studyclub/dismiss.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// ServeDismiss handles POST /api/study-club/dismiss.
// The admin deletes the whole club. Everyone on the stream hears a
// club-dismissed event before the channel goes quiet.
func (h *Handler) ServeDismiss(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	club, ok := h.adminClub(ctx, w, adminID)
	if !ok {
		return
	}

	deleted, err := h.Clubs.Delete(ctx, club.PartyCode, adminID)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			// Raced with expiry; nothing left to dismiss.
			httpjson.NotFound(w, "study club not found")
			return
		}
		h.Log.Error("dismiss failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.teardownClub(ctx, deleted.PartyCode, "dismissed")

	h.Log.Info("study club dismissed",
		zap.String("party_code", deleted.PartyCode),
		zap.String("admin_id", adminID.Hex()))

	httpjson.OK(w, map[string]string{
		"status":     "dismissed",
		"party_code": deleted.PartyCode,
		"party_name": deleted.PartyName,
	})
}

// teardownClub runs the shared cleanup after a club document is gone:
// notify the stream, detach every user, drop the activity record.
func (h *Handler) teardownClub(ctx context.Context, partyCode, reason string) {
	h.publish(ctx, partyCode, notify.NewEvent(notify.TypeClubDismissed, clubDismissedPayload{
		PartyCode: partyCode,
		Reason:    reason,
	}))

	if n, err := h.Users.ClearPartyCodeForAll(ctx, partyCode); err != nil {
		h.Log.Warn("clear party codes after teardown failed",
			zap.String("party_code", partyCode),
			zap.Error(err))
	} else if n > 0 {
		h.Log.Debug("cleared party codes",
			zap.String("party_code", partyCode),
			zap.Int64("users", n))
	}

	if err := h.Tracker.Forget(ctx, partyCode); err != nil {
		h.Log.Warn("forget activity record failed",
			zap.String("party_code", partyCode),
			zap.Error(err))
	}
}
