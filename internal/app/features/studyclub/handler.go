// internal/app/features/studyclub/handler.go
package studyclub

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/activity"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/mailer"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

// Handler owns the study club endpoints: the membership lifecycle,
// the notification stream, and the activity checks.
type Handler struct {
	Clubs   *clubstore.Store
	Users   *userstore.Store
	Broker  notify.Broker
	Tracker activity.Tracker
	Mailer  *mailer.Mailer
	Log     *zap.Logger

	SiteName          string
	InactiveThreshold time.Duration
	MediaSecret       string
	MediaTokenTTL     time.Duration
}

// NewHandler creates a new study club Handler.
func NewHandler(clubs *clubstore.Store, users *userstore.Store, broker notify.Broker, tracker activity.Tracker, mail *mailer.Mailer, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:   clubs,
		Users:   users,
		Broker:  broker,
		Tracker: tracker,
		Mailer:  mail,
		Log:     logger,
	}
}

// requireUser resolves the signed-in user's ObjectID. It writes the
// error response itself and returns ok=false when the session is
// missing or malformed.
func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "")
		return primitive.NilObjectID, false
	}
	oid, ok := u.ObjectID()
	if !ok {
		httpjson.Unauthorized(w, "")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// clubForUser loads the club the user currently belongs to, following
// the party_code recorded on their user document.
func (h *Handler) clubForUser(ctx context.Context, userID primitive.ObjectID) (models.StudyClub, error) {
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return models.StudyClub{}, err
	}
	if u.PartyCode == "" {
		return models.StudyClub{}, clubstore.ErrNotFound
	}
	return h.Clubs.GetByCode(ctx, u.PartyCode)
}

// publish fans an event out to everyone streaming the club's channel.
// Delivery is best effort, so failures are logged and not surfaced.
func (h *Handler) publish(ctx context.Context, partyCode string, ev notify.Event) {
	if err := h.Broker.Publish(ctx, partyCode, ev); err != nil {
		h.Log.Warn("publish club event failed",
			zap.String("party_code", partyCode),
			zap.String("type", ev.Type),
			zap.Error(err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, clubstore.ErrNotFound) || errors.Is(err, userstore.ErrNotFound)
}
