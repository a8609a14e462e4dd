package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given username and email.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateClub creates a live test club with the given admin and members.
// The admin is always included in member_ids.
func (f *Fixtures) CreateClub(ctx context.Context, partyCode, partyName string, adminID primitive.ObjectID, memberIDs ...primitive.ObjectID) models.StudyClub {
	f.t.Helper()

	members := append([]primitive.ObjectID{adminID}, memberIDs...)
	now := time.Now().UTC()
	club := models.StudyClub{
		ID:          primitive.NewObjectID(),
		PartyCode:   partyCode,
		PartyName:   partyName,
		PartyNameCI: text.Fold(partyName),
		AdminID:     adminID,
		MemberIDs:   members,
		PendingIDs:  []primitive.ObjectID{},
		ExpiresAt:   now.Add(40 * time.Minute),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("study_clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return club
}

// CreateExpiredClub creates a club whose expires_at is already in the past.
func (f *Fixtures) CreateExpiredClub(ctx context.Context, partyCode, partyName string, adminID primitive.ObjectID) models.StudyClub {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.StudyClub{
		ID:          primitive.NewObjectID(),
		PartyCode:   partyCode,
		PartyName:   partyName,
		PartyNameCI: text.Fold(partyName),
		AdminID:     adminID,
		MemberIDs:   []primitive.ObjectID{adminID},
		PendingIDs:  []primitive.ObjectID{},
		ExpiresAt:   now.Add(-time.Minute),
		CreatedAt:   now.Add(-41 * time.Minute),
		UpdatedAt:   now.Add(-41 * time.Minute),
	}

	if _, err := f.db.Collection("study_clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create expired test club: %v", err)
	}
	return club
}

// AddPending pushes a user onto a club's pending list directly.
func (f *Fixtures) AddPending(ctx context.Context, clubID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("study_clubs").UpdateByID(ctx, clubID,
		map[string]any{"$addToSet": map[string]any{"pending_ids": userID}})
	if err != nil {
		f.t.Fatalf("failed to add pending request: %v", err)
	}
}

// LoadClub re-reads a club document by id.
func (f *Fixtures) LoadClub(ctx context.Context, clubID primitive.ObjectID) models.StudyClub {
	f.t.Helper()

	var club models.StudyClub
	if err := f.db.Collection("study_clubs").FindOne(ctx, map[string]any{"_id": clubID}).Decode(&club); err != nil {
		f.t.Fatalf("failed to load club: %v", err)
	}
	return club
}

// LoadUser re-reads a user document by id.
func (f *Fixtures) LoadUser(ctx context.Context, userID primitive.ObjectID) models.User {
	f.t.Helper()

	var u models.User
	if err := f.db.Collection("users").FindOne(ctx, map[string]any{"_id": userID}).Decode(&u); err != nil {
		f.t.Fatalf("failed to load user: %v", err)
	}
	return u
}
