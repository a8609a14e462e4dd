package userstore

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
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with
	// an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users for a set of ids, e.g. a club's member list.
// Missing ids are skipped, not errors: a user deleted mid-request should
// not break the member view.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Name(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = normalize.Email(u.Email)
	if u.AuthMethod == "" {
		u.AuthMethod = "password"
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpsertGoogle finds or creates the account for a Google sign-in. An
// existing password account with the same email is linked rather than
// duplicated.
func (s *Store) UpsertGoogle(ctx context.Context, username, email string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		Username:   username,
		Email:      email,
		AuthMethod: "google",
	})
	if err != nil {
		// Lost a race with a concurrent first sign-in; load the winner.
		if errors.Is(err, ErrDuplicateEmail) {
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return &created, nil
}

// SetPartyCode records the club a user belongs to (denormalized pointer).
func (s *Store) SetPartyCode(ctx context.Context, id primitive.ObjectID, code string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"party_code": normalize.PartyCode(code),
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ClearPartyCode removes the pointer for one user (leave, kick).
func (s *Store) ClearPartyCode(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"party_code": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// ClearPartyCodeForAll removes the pointer for every user who carried the
// code (dismiss, expiry). Returns the number of users touched.
func (s *Store) ClearPartyCodeForAll(ctx context.Context, code string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"party_code": normalize.PartyCode(code)},
		bson.M{
			"$unset": bson.M{"party_code": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddSaved appends a snippet to the user's saved list and returns it.
func (s *Store) AddSaved(ctx context.Context, id primitive.ObjectID, title, content string) (models.SavedResponse, error) {
	snippet := models.SavedResponse{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"saved": snippet},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return models.SavedResponse{}, err
	}
	if res.MatchedCount == 0 {
		return models.SavedResponse{}, ErrNotFound
	}
	return snippet, nil
}

// RemoveSaved pulls a snippet by its id. Returns ErrNotFound when the user
// has no snippet with that id.
func (s *Store) RemoveSaved(ctx context.Context, id, snippetID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"saved": bson.M{"id": snippetID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
