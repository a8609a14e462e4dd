// internal/domain/models/studyclub.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyClub is a short-lived study group identified by a shareable party code.
//
// NOTE:
//   - MemberIDs and PendingIDs carry set semantics: every mutation goes
//     through guarded $addToSet/$pull updates so the two arrays stay
//     disjoint and duplicate-free even under concurrent requests.
//   - AdminID is always present in MemberIDs. Admin transfer only retargets
//     AdminID; the old admin stays an ordinary member.
//   - ExpiresAt drives a TTL index on the collection; a club past its
//     expiry is eligible for deletion by the store itself.
type StudyClub struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	PartyCode   string               `bson:"party_code" json:"party_code"`
	PartyName   string               `bson:"party_name" json:"party_name"`
	PartyNameCI string               `bson:"party_name_ci" json:"party_name_ci"`
	AdminID     primitive.ObjectID   `bson:"admin_id" json:"admin_id"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	PendingIDs  []primitive.ObjectID `bson:"pending_ids" json:"pending_ids"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsMember reports whether the user is the admin or appears in MemberIDs.
func (c *StudyClub) IsMember(userID primitive.ObjectID) bool {
	if c.AdminID == userID {
		return true
	}
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsPending reports whether the user has an open join request.
func (c *StudyClub) IsPending(userID primitive.ObjectID) bool {
	for _, id := range c.PendingIDs {
		if id == userID {
			return true
		}
	}
	return false
}
