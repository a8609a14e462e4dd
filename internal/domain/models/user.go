// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a StudyBuddy account.
//
// NOTE:
//   - PartyCode is a denormalized convenience pointer to the club the user
//     currently belongs to. Club membership itself lives on the StudyClub
//     document; this field is cleared when the user leaves, is kicked, or
//     the club is dismissed or expires.
//   - Saved holds snippets the user kept from AI responses. It is owned by
//     the saved feature, not by the club workflow.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"email_ci"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method" json:"auth_method"` // password | google

	PartyCode string          `bson:"party_code,omitempty" json:"party_code,omitempty"`
	Saved     []SavedResponse `bson:"saved,omitempty" json:"saved,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SavedResponse is one snippet a user saved from an AI-generated answer.
type SavedResponse struct {
	ID        primitive.ObjectID `bson:"id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Summary is the caller-safe projection of a user returned by the API.
type Summary struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

// Summary returns the API projection of the user.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Email: u.Email}
}
