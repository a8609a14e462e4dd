// internal/app/features/studyclub/join.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/mailer"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/partycode"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

type joinRequest struct {
	PartyCode string `json:"party_code"`
}

// ServeJoin handles POST /api/study-club/join.
// Adds the caller to the club's pending list; the admin decides from
// there. A user already in or already waiting gets a conflict.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req joinRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	code := normalize.PartyCode(req.PartyCode)
	if !partycode.Valid(code) {
		httpjson.BadRequest(w, "invalid party code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
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

	if err := h.Clubs.AddPending(ctx, code, userID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			switch {
			case club.IsMember(userID):
				httpjson.Conflict(w, "you are already a member of this club")
			case club.IsPending(userID):
				httpjson.Conflict(w, "your join request is already pending")
			default:
				// Raced with expiry or dismissal.
				httpjson.NotFound(w, "study club not found")
			}
			return
		}
		h.Log.Error("add pending failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	joiner, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Warn("load joiner failed", zap.Error(err))
	}

	username := ""
	if joiner != nil {
		username = joiner.Username
	}
	h.publish(ctx, code, notify.NewEvent(notify.TypeNewJoinRequest, joinRequestPayload{
		PartyCode: code,
		UserID:    userID.Hex(),
		Username:  username,
	}))

	h.notifyAdminOfJoin(ctx, code, username)

	h.Log.Info("join request submitted",
		zap.String("party_code", code),
		zap.String("user_id", userID.Hex()))

	httpjson.OK(w, map[string]string{"status": "pending", "party_code": code})
}

// notifyAdminOfJoin emails the club admin about a new request. Best
// effort: the join already succeeded.
func (h *Handler) notifyAdminOfJoin(ctx context.Context, code, username string) {
	if !h.Mailer.Enabled() {
		return
	}
	club, err := h.Clubs.GetByCode(ctx, code)
	if err != nil {
		return
	}
	admin, err := h.Users.GetByID(ctx, club.AdminID)
	if err != nil {
		h.Log.Warn("load admin for join email failed", zap.Error(err))
		return
	}
	email := mailer.BuildJoinRequestEmail(mailer.JoinRequestEmailData{
		SiteName:  h.SiteName,
		PartyName: club.PartyName,
		Username:  username,
	})
	email.To = admin.Email
	h.Mailer.SendAsync(email)
}
