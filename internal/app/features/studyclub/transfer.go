// internal/app/features/studyclub/transfer.go
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

// ServeTransferAdmin handles POST /api/study-club/transfer-admin.
// Retargets the admin role onto an existing member. The old admin
// stays in the club as an ordinary member.
func (h *Handler) ServeTransferAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireUser(w, r)
	if !ok {
		return
	}
	targetID, ok := decodeTargetUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	club, ok := h.adminClub(ctx, w, adminID)
	if !ok {
		return
	}

	if targetID == adminID {
		httpjson.Conflict(w, "you already admin this club")
		return
	}

	if err := h.Clubs.TransferAdmin(ctx, club.PartyCode, adminID, targetID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			httpjson.Conflict(w, "that user is not a member of your club")
			return
		}
		h.Log.Error("transfer admin failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeAdminTransfer, adminTransferPayload{
		PartyCode:  club.PartyCode,
		NewAdminID: targetID.Hex(),
	}))
	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeMemberUpdate, memberUpdatePayload{
		PartyCode: club.PartyCode,
		Action:    "transferred",
		UserID:    targetID.Hex(),
	}))

	h.Log.Info("admin role transferred",
		zap.String("party_code", club.PartyCode),
		zap.String("old_admin", adminID.Hex()),
		zap.String("new_admin", targetID.Hex()))

	httpjson.OK(w, map[string]string{"status": "transferred"})
}
