// internal/app/features/studyclub/requests.go
package studyclub

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

type decideRequest struct {
	UserID string `json:"user_id"`
}

// adminClub loads the club the caller administers, writing the error
// response itself on failure.
func (h *Handler) adminClub(ctx context.Context, w http.ResponseWriter, adminID primitive.ObjectID) (models.StudyClub, bool) {
	club, err := h.Clubs.GetByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			httpjson.Forbidden(w, "you do not admin a study club")
			return models.StudyClub{}, false
		}
		h.Log.Error("load admin club failed", zap.Error(err))
		httpjson.ServerError(w)
		return models.StudyClub{}, false
	}
	return club, true
}

func decodeTargetUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	var req decideRequest
	if !httpjson.Decode(w, r, &req) {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.BadRequest(w, "invalid user_id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeApprove handles POST /api/study-club/requests/approve.
// The admin moves a pending user into the member list. The guarded
// update makes a repeat or raced approve report not-found (the request
// is no longer pending) rather than duplicating the member.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Clubs.Approve(ctx, club.PartyCode, adminID, targetID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			httpjson.NotFound(w, "no pending request for that user")
			return
		}
		h.Log.Error("approve failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Users.SetPartyCode(ctx, targetID, club.PartyCode); err != nil {
		h.Log.Warn("set party code on approved member failed",
			zap.String("user_id", targetID.Hex()),
			zap.Error(err))
	}

	username := ""
	if u, err := h.Users.GetByID(ctx, targetID); err == nil {
		username = u.Username
	}

	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeRequestStatus, requestStatusPayload{
		PartyCode: club.PartyCode,
		UserID:    targetID.Hex(),
		Status:    "approved",
	}))
	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeMemberUpdate, memberUpdatePayload{
		PartyCode: club.PartyCode,
		Action:    "joined",
		UserID:    targetID.Hex(),
		Username:  username,
	}))

	h.Log.Info("join request approved",
		zap.String("party_code", club.PartyCode),
		zap.String("user_id", targetID.Hex()))

	httpjson.OK(w, map[string]string{"status": "approved"})
}

// ServeReject handles POST /api/study-club/requests/reject.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Clubs.Reject(ctx, club.PartyCode, adminID, targetID); err != nil {
		if errors.Is(err, clubstore.ErrNoEffect) {
			httpjson.NotFound(w, "no pending request for that user")
			return
		}
		h.Log.Error("reject failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.publish(ctx, club.PartyCode, notify.NewEvent(notify.TypeRequestStatus, requestStatusPayload{
		PartyCode: club.PartyCode,
		UserID:    targetID.Hex(),
		Status:    "rejected",
	}))

	h.Log.Info("join request rejected",
		zap.String("party_code", club.PartyCode),
		zap.String("user_id", targetID.Hex()))

	httpjson.OK(w, map[string]string{"status": "rejected"})
}
