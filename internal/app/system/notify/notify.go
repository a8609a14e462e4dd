// Package notify delivers membership-change events to clients watching a
// study club. Events are published by the club handlers after a successful
// write and consumed by the SSE notifications endpoint.
//
// Two broker implementations exist: an in-process one (single server
// instance) and a Redis pub/sub one (any number of instances). Both fan
// out every event to every subscriber of the party code; there is no
// buffering or replay, so an event published while nobody is subscribed
// is dropped.
package notify

import (
	"context"
	"encoding/json"
)

// Event types pushed over a club's notification channel.
const (
	TypeMemberUpdate   = "member-update"
	TypeRequestStatus  = "request-status"
	TypeClubDismissed  = "club-dismissed"
	TypeNewJoinRequest = "new-join-request"
	TypeMemberKicked   = "member-kicked"
	TypeAdminTransfer  = "admin-transfer"
)

// KnownType reports whether t is one of the event types clients understand.
func KnownType(t string) bool {
	switch t {
	case TypeMemberUpdate, TypeRequestStatus, TypeClubDismissed,
		TypeNewJoinRequest, TypeMemberKicked, TypeAdminTransfer:
		return true
	}
	return false
}

// Event is one notification pushed to viewers of a club.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEvent builds an Event, marshaling data to JSON. A marshal failure is a
// programming error; the event is sent with a null payload instead of being
// silently dropped.
func NewEvent(eventType string, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = json.RawMessage("null")
	}
	return Event{Type: eventType, Data: raw}
}

// Broker fans events out to subscribers keyed by party code.
type Broker interface {
	// Publish delivers ev to every current subscriber of partyCode. It
	// never blocks on slow subscribers.
	Publish(ctx context.Context, partyCode string, ev Event) error

	// Subscribe registers a viewer for partyCode. The returned channel is
	// closed when cancel is called or the broker shuts down. cancel is
	// idempotent.
	Subscribe(ctx context.Context, partyCode string) (<-chan Event, func(), error)
}
