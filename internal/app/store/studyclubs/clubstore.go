// Package clubstore persists StudyClub documents.
//
// Every membership mutation is a single guarded UpdateOne: the filter
// re-asserts the operation's preconditions (caller is admin, target is
// pending, target is a member, ...) and the update uses $addToSet/$pull so
// the member and pending arrays keep set semantics. ModifiedCount == 0
// means the precondition no longer held when the write landed, so
// concurrent approve/reject/kick/leave calls against the same club cannot
// lose updates or introduce duplicates.
package clubstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/partycode"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

// DefaultLifetime is how long a club lives after creation.
const DefaultLifetime = 40 * time.Minute

// codeRetries bounds how many fresh party codes Create tries when it keeps
// colliding with the unique index. Collisions are vanishingly rare at the
// code length in use; hitting the bound indicates something else is wrong.
const codeRetries = 5

var (
	// ErrNotFound is returned when no club matches the party code.
	ErrNotFound = errors.New("study club not found")

	// ErrAdminHasClub is returned by Create when the caller already runs a
	// live club.
	ErrAdminHasClub = errors.New("you already have an active study club")

	// ErrNoEffect is returned when a guarded update matched no document:
	// the precondition (caller role, target state) no longer holds.
	ErrNoEffect = errors.New("operation had no effect")
)

type Store struct {
	c        *mongo.Collection
	lifetime time.Duration
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("study_clubs"), lifetime: DefaultLifetime}
}

// NewWithLifetime creates a Store whose clubs expire after the given
// duration rather than DefaultLifetime.
func NewWithLifetime(db *mongo.Database, lifetime time.Duration) *Store {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Store{c: db.Collection("study_clubs"), lifetime: lifetime}
}

// GetByCode loads a live club. Clubs past expires_at are treated as gone
// even if the TTL sweep has not removed them yet.
func (s *Store) GetByCode(ctx context.Context, code string) (models.StudyClub, error) {
	var club models.StudyClub
	err := s.c.FindOne(ctx, bson.M{
		"party_code": normalize.PartyCode(code),
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.StudyClub{}, ErrNotFound
	}
	if err != nil {
		return models.StudyClub{}, err
	}
	return club, nil
}

// GetByAdmin returns the caller's live club, or ErrNotFound.
func (s *Store) GetByAdmin(ctx context.Context, adminID primitive.ObjectID) (models.StudyClub, error) {
	var club models.StudyClub
	err := s.c.FindOne(ctx, bson.M{
		"admin_id":   adminID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.StudyClub{}, ErrNotFound
	}
	if err != nil {
		return models.StudyClub{}, err
	}
	return club, nil
}

// Create inserts a new club with the caller as admin and sole member. The
// party code is generated here; on a unique-index collision a fresh code
// is tried.
func (s *Store) Create(ctx context.Context, adminID primitive.ObjectID, partyName string) (models.StudyClub, error) {
	if _, err := s.GetByAdmin(ctx, adminID); err == nil {
		return models.StudyClub{}, ErrAdminHasClub
	} else if !errors.Is(err, ErrNotFound) {
		return models.StudyClub{}, err
	}

	now := time.Now().UTC()
	club := models.StudyClub{
		PartyName:   partyName,
		PartyNameCI: text.Fold(partyName),
		AdminID:     adminID,
		MemberIDs:   []primitive.ObjectID{adminID},
		PendingIDs:  []primitive.ObjectID{},
		ExpiresAt:   now.Add(s.lifetime),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		club.ID = primitive.NewObjectID()
		club.PartyCode = partycode.New()
		_, err := s.c.InsertOne(ctx, club)
		if err == nil {
			return club, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.StudyClub{}, err
		}
	}
	return models.StudyClub{}, errors.New("could not generate a unique party code")
}

// PartyNameInUse reports whether a live club already uses the name.
// Advisory only; names are not unique.
func (s *Store) PartyNameInUse(ctx context.Context, partyName string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"party_name_ci": text.Fold(partyName),
		"expires_at":    bson.M{"$gt": time.Now().UTC()},
	})
	return n > 0, err
}

// AddPending appends userID to pending_ids. The guard excludes the admin,
// current members, and users already pending.
func (s *Store) AddPending(ctx context.Context, code string, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"party_code":  normalize.PartyCode(code),
			"expires_at":  bson.M{"$gt": time.Now().UTC()},
			"admin_id":    bson.M{"$ne": userID},
			"member_ids":  bson.M{"$ne": userID},
			"pending_ids": bson.M{"$ne": userID},
		},
		bson.M{
			"$addToSet": bson.M{"pending_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoEffect
	}
	return nil
}

// Approve moves userID from pending_ids to member_ids in one update. The
// guard requires the caller to be the admin and the target to still be
// pending, so a concurrent reject or second approve turns into ErrNoEffect
// instead of a duplicate member.
func (s *Store) Approve(ctx context.Context, code string, adminID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"party_code":  normalize.PartyCode(code),
			"admin_id":    adminID,
			"pending_ids": userID,
		},
		bson.M{
			"$pull":     bson.M{"pending_ids": userID},
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoEffect
	}
	return nil
}

// Reject removes userID from pending_ids only.
func (s *Store) Reject(ctx context.Context, code string, adminID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"party_code":  normalize.PartyCode(code),
			"admin_id":    adminID,
			"pending_ids": userID,
		},
		bson.M{
			"$pull": bson.M{"pending_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoEffect
	}
	return nil
}

// RemoveMember pulls userID from member_ids. Used for both kick (caller is
// admin, target is someone else) and leave (caller removes themself). The
// admin can never be removed this way.
func (s *Store) RemoveMember(ctx context.Context, code string, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"party_code": normalize.PartyCode(code),
			"admin_id":   bson.M{"$ne": userID},
			"member_ids": userID,
		},
		bson.M{
			"$pull": bson.M{"member_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoEffect
	}
	return nil
}

// TransferAdmin retargets admin_id to newAdminID. The guard requires the
// caller to still be admin and the target to already be a member; the old
// admin keeps their member_ids entry, so they stay an ordinary member.
func (s *Store) TransferAdmin(ctx context.Context, code string, adminID, newAdminID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"party_code": normalize.PartyCode(code),
			"admin_id":   adminID,
			"member_ids": newAdminID,
		},
		bson.M{
			"$set": bson.M{
				"admin_id":   newAdminID,
				"updated_at": time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoEffect
	}
	return nil
}

// Delete removes the club if the caller is its admin, returning the
// deleted document for the final confirmation toast.
func (s *Store) Delete(ctx context.Context, code string, adminID primitive.ObjectID) (models.StudyClub, error) {
	var club models.StudyClub
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"party_code": normalize.PartyCode(code),
		"admin_id":   adminID,
	}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.StudyClub{}, ErrNotFound
	}
	if err != nil {
		return models.StudyClub{}, err
	}
	return club, nil
}

// DeleteByCode removes a club regardless of caller. Used by the expiry and
// inactivity cleanup paths.
func (s *Store) DeleteByCode(ctx context.Context, code string) (models.StudyClub, error) {
	var club models.StudyClub
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"party_code": normalize.PartyCode(code),
	}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.StudyClub{}, ErrNotFound
	}
	if err != nil {
		return models.StudyClub{}, err
	}
	return club, nil
}

// ListExpired returns clubs whose expires_at has passed. The expiry worker
// deletes them one by one so each deletion can publish a notification.
func (s *Store) ListExpired(ctx context.Context, now time.Time) ([]models.StudyClub, error) {
	cur, err := s.c.Find(ctx, bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.StudyClub
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}
