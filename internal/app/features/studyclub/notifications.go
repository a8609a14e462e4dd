// internal/app/features/studyclub/notifications.go
package studyclub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// keepAliveInterval spaces the SSE comment lines that keep proxies
// from closing an otherwise quiet stream.
const keepAliveInterval = 25 * time.Second

// ServeNotifications handles GET /api/study-club/notifications.
// Streams the caller's club events as server-sent events until the
// client disconnects or the club disappears.
func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httpjson.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	lookupCtx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	club, err := h.clubForUser(lookupCtx, userID)
	cancel()
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

	events, unsubscribe, err := h.Broker.Subscribe(r.Context(), club.PartyCode)
	if err != nil {
		h.Log.Error("subscribe failed",
			zap.String("party_code", club.PartyCode),
			zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, ": connected %s\n\n", club.PartyCode)
	flusher.Flush()

	h.Log.Debug("notification stream opened",
		zap.String("party_code", club.PartyCode),
		zap.String("user_id", userID.Hex()))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
			// The stream has nothing more to say once the club is gone.
			if ev.Type == notify.TypeClubDismissed {
				return
			}
		}
	}
}

// writeSSE emits one event in the text/event-stream framing.
func writeSSE(w http.ResponseWriter, ev notify.Event) {
	fmt.Fprintf(w, "event: %s\n", ev.Type)
	fmt.Fprintf(w, "data: %s\n\n", ev.Data)
}

type triggerRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServeTrigger handles POST /api/study-club/notifications.
// Lets the admin push a known event type onto the club's stream by
// hand, which the web client uses to nudge members to refresh.
func (h *Handler) ServeTrigger(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req triggerRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if !notify.KnownType(req.Type) {
		httpjson.BadRequest(w, "unknown event type")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	club, ok := h.adminClub(ctx, w, adminID)
	if !ok {
		return
	}

	data := req.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	h.publish(ctx, club.PartyCode, notify.Event{Type: req.Type, Data: data})

	httpjson.OK(w, map[string]string{"status": "sent"})
}
