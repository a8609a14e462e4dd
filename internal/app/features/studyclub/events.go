// internal/app/features/studyclub/events.go
package studyclub

// Event payloads pushed over the notification stream. Clients key off
// the event name and read these bodies as JSON.

type memberUpdatePayload struct {
	PartyCode string `json:"party_code"`
	Action    string `json:"action"` // joined | left | kicked | transferred
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
}

type requestStatusPayload struct {
	PartyCode string `json:"party_code"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"` // approved | rejected
}

type joinRequestPayload struct {
	PartyCode string `json:"party_code"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

type clubDismissedPayload struct {
	PartyCode string `json:"party_code"`
	Reason    string `json:"reason"` // dismissed | expired | inactive
}

type adminTransferPayload struct {
	PartyCode  string `json:"party_code"`
	NewAdminID string `json:"new_admin_id"`
}
