// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
)

// JoinRequestEmailData holds data for the join-request notification sent to
// a club admin.
type JoinRequestEmailData struct {
	SiteName  string
	PartyName string
	Username  string
}

// BuildJoinRequestEmail creates the notification a club admin receives when
// someone asks to join.
func BuildJoinRequestEmail(data JoinRequestEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s wants to join %q", data.Username, data.PartyName),
		TextBody: buildJoinRequestText(data),
	}
}

func buildJoinRequestText(data JoinRequestEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s has requested to join your study club %q.\n\n", data.Username, data.PartyName))
	buf.WriteString("Open your club dashboard to approve or reject the request.\n\n")
	buf.WriteString(fmt.Sprintf("The %s team\n", data.SiteName))
	return buf.String()
}

// KickedEmailData holds data for the removal notification sent to a kicked
// member when the admin opts to notify them.
type KickedEmailData struct {
	SiteName  string
	PartyName string
}

// BuildKickedEmail creates the notification a removed member receives.
func BuildKickedEmail(data KickedEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You have been removed from %q", data.PartyName),
		TextBody: buildKickedText(data),
	}
}

func buildKickedText(data KickedEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("The admin of %q has removed you from the study club.\n\n", data.PartyName))
	buf.WriteString("You can join another club with a new party code at any time.\n\n")
	buf.WriteString(fmt.Sprintf("The %s team\n", data.SiteName))
	return buf.String()
}
