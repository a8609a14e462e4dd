// internal/app/features/studyclub/kick.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/mailer"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

type kickRequest struct {
	UserID string `json:"user_id"`
	// NotifyMember controls the courtesy email to the removed member.
	// Absent means yes.
	NotifyMember *bool `json:"notify_member"`
}

// ServeKick handles POST /api/study-club/kick.
// The admin removes a member. The admin themselves can never be the
// target; the guarded update refuses it.
func (h *Handler) ServeKick(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req kickRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.BadRequest(w, "user_id is not a valid id")
		return
	}
	notifyMember := req.NotifyMember == nil || *req.NotifyMember

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	club, ok := h.adminClub(ctx, w, adminID)
	if !ok {
		return
	}

	if targetID == adminID {
		httpjson.Conflict(w, "the admin cannot kick themselves")
		return
	}

	if err := h.Clubs.RemoveMember(ctx, club.PartyCode, targetID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			httpjson.NotFound(w, "that user is not a member")
			return
		}
		h.Log.Error("kick failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Users.ClearPartyCode(ctx, targetID); err != nil {
		h.Log.Warn("clear party code on kicked member failed",
			zap.String("user_id", targetID.Hex()),
			zap.Error(err))
	}

	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeMemberKicked, memberUpdatePayload{
		PartyCode: club.PartyCode,
		Action:    "kicked",
		UserID:    targetID.Hex(),
	}))
	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeMemberUpdate, memberUpdatePayload{
		PartyCode: club.PartyCode,
		Action:    "kicked",
		UserID:    targetID.Hex(),
	}))

	if notifyMember && h.Mailer.Enabled() {
		if target, err := h.Users.GetByID(ctx, targetID); err == nil {
			email := mailer.BuildKickedEmail(mailer.KickedEmailData{
				SiteName:  h.SiteName,
				PartyName: club.PartyName,
			})
			email.To = target.Email
			h.Mailer.SendAsync(email)
		}
	}

	h.Log.Info("member kicked",
		zap.String("party_code", club.PartyCode),
		zap.String("user_id", targetID.Hex()))

	httpjson.OK(w, map[string]string{"status": "kicked"})
}
