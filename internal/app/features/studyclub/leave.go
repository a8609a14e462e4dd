// internal/app/features/studyclub/leave.go
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

// ServeLeave handles POST /api/study-club/leave-club.
// An ordinary member walks out. The admin must transfer the role or
// dismiss the club instead.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
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

	if club.AdminID == userID {
		httpjson.Conflict(w, "transfer the admin role or dismiss the club first")
		return
	}

	if err := h.Clubs.RemoveMember(ctx, club.PartyCode, userID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			httpjson.NotFound(w, "you are not a member of this club")
			return
		}
		h.Log.Error("leave failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Users.ClearPartyCode(ctx, userID); err != nil {
		h.Log.Warn("clear party code on leave failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}

	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeMemberUpdate, memberUpdatePayload{
		PartyCode: club.PartyCode,
		Action:    "left",
		UserID:    userID.Hex(),
	}))

	h.Log.Info("member left club",
		zap.String("party_code", club.PartyCode),
		zap.String("user_id", userID.Hex()))

	httpjson.OK(w, map[string]string{"status": "left"})
}
