// internal/app/store/savedfilters/savedfilterstore.go
package savedfilterstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Report features that carry saved filters.
const (
	FeatureAwards   = "awards"
	FeaturePayments = "payments"
)

// SavedFilter is one user's named filter configuration for a report screen:
// the query params (day/month/year, search, sort) captured as strings.
type SavedFilter struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Feature   string             `bson:"feature"` // "awards", "payments"
	Name      string             `bson:"name"`    // "March payroll"
	Filters   map[string]string  `bson:"filters"` // query params
	IsDefault bool               `bson:"is_default"` // auto-apply on page load
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

var (
	// ErrNotFound is returned when a saved filter is not found.
	ErrNotFound = errors.New("saved filter not found")
	// ErrDuplicateName is returned when a filter with the same name exists.
	ErrDuplicateName = errors.New("a filter with this name already exists")
	// ErrNotOwner is returned when a user tries to modify a filter they don't own.
	ErrNotOwner = errors.New("you do not own this filter")
)

// Store provides saved filter persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new saved filter store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("saved_filters")}
}

// CreateInput holds the fields for creating a new saved filter.
type CreateInput struct {
	UserID    primitive.ObjectID
	Feature   string
	Name      string
	Filters   map[string]string
	IsDefault bool
}

// Create creates a new saved filter. Setting it default clears any existing
// default for the same user and feature.
func (s *Store) Create(ctx context.Context, input CreateInput) (SavedFilter, error) {
	now := time.Now()

	if input.IsDefault {
		if err := s.clearDefaults(ctx, input.UserID, input.Feature, primitive.NilObjectID, now); err != nil {
			return SavedFilter{}, err
		}
	}

	filter := SavedFilter{
		ID:        primitive.NewObjectID(),
		UserID:    input.UserID,
		Feature:   input.Feature,
		Name:      input.Name,
		Filters:   input.Filters,
		IsDefault: input.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, filter); err != nil {
		if isDuplicateKeyError(err) {
			return SavedFilter{}, ErrDuplicateName
		}
		return SavedFilter{}, err
	}

	return filter, nil
}

// GetByID retrieves a saved filter by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*SavedFilter, error) {
	var filter SavedFilter
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&filter); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &filter, nil
}

// ListForUser returns all saved filters for a user and feature, default first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, feature string) ([]SavedFilter, error) {
	query := bson.M{"user_id": userID}
	if feature != "" {
		query["feature"] = feature
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "is_default", Value: -1},
		{Key: "name", Value: 1},
	})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var filters []SavedFilter
	if err := cur.All(ctx, &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

// GetDefault returns the default filter for a user and feature, or nil if
// none is set.
func (s *Store) GetDefault(ctx context.Context, userID primitive.ObjectID, feature string) (*SavedFilter, error) {
	var filter SavedFilter
	err := s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"feature":    feature,
		"is_default": true,
	}).Decode(&filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &filter, nil
}

// SetDefault sets a filter as the default (and clears other defaults).
func (s *Store) SetDefault(ctx context.Context, id, userID primitive.ObjectID) error {
	filter, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if filter.UserID != userID {
		return ErrNotOwner
	}

	now := time.Now()
	if err := s.clearDefaults(ctx, userID, filter.Feature, id, now); err != nil {
		return err
	}

	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_default": true,
		"updated_at": now,
	}})
	return err
}

// Delete deletes a saved filter. Only the owner can delete.
func (s *Store) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := s.c.DeleteOne(ctx, bson.M{
		"_id":     id,
		"user_id": userID,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// clearDefaults unsets is_default on every filter of the user/feature except
// keep (pass NilObjectID to clear all).
func (s *Store) clearDefaults(ctx context.Context, userID primitive.ObjectID, feature string, keep primitive.ObjectID, now time.Time) error {
	query := bson.M{
		"user_id": userID,
		"feature": feature,
	}
	if !keep.IsZero() {
		query["_id"] = bson.M{"$ne": keep}
	}
	_, err := s.c.UpdateMany(ctx, query, bson.M{
		"$set": bson.M{
			"is_default": false,
			"updated_at": now,
		},
	})
	return err
}

// isDuplicateKeyError checks if the error is a duplicate key error.
func isDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
