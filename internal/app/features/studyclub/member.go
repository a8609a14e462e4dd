// internal/app/features/studyclub/member.go
package studyclub

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

// clubView is the club document as the API presents it. Pending
// requests are visible to the admin only.
type clubView struct {
	PartyCode string           `json:"party_code"`
	PartyName string           `json:"party_name"`
	AdminID   string           `json:"admin_id"`
	IsAdmin   bool             `json:"is_admin"`
	Members   []models.Summary `json:"members"`
	Pending   []models.Summary `json:"pending,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// clubView resolves member and pending user documents into the API
// shape. Lookup failures degrade to an empty list rather than failing
// the whole request.
func (h *Handler) clubView(ctx context.Context, club models.StudyClub, viewerID primitive.ObjectID) clubView {
	view := clubView{
		PartyCode: club.PartyCode,
		PartyName: club.PartyName,
		AdminID:   club.AdminID.Hex(),
		IsAdmin:   club.AdminID == viewerID,
		ExpiresAt: club.ExpiresAt,
		Members:   h.summaries(ctx, club.MemberIDs),
	}
	if view.IsAdmin {
		view.Pending = h.summaries(ctx, club.PendingIDs)
	}
	return view
}

func (h *Handler) summaries(ctx context.Context, ids []primitive.ObjectID) []models.Summary {
	out := make([]models.Summary, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("resolve club members failed", zap.Error(err))
		return out
	}
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}

// ServeMember handles GET /api/study-club/member.
// Returns the club the caller belongs to, or 404 when they have none.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
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
		// Stale party_code on the user document, clean it up.
		if err := h.Users.ClearPartyCode(ctx, userID); err != nil {
			h.Log.Warn("clear stale party code failed", zap.Error(err))
		}
		httpjson.NotFound(w, "you are not in a study club")
		return
	}

	httpjson.OK(w, h.clubView(ctx, club, userID))
}
