// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/movehq/moveboard/internal/app/system/normalize"
)

// Attempt tracks failed login attempts for a specific login_id.
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	LoginID      string             `bson:"login_id"`      // normalized login identifier (lowercase)
	AttemptCount int                `bson:"attempt_count"` // failed attempts in current window
	WindowStart  time.Time          `bson:"window_start"`  // when the current counting window started
	LockedUntil  *time.Time         `bson:"locked_until"`  // lockout expiry time (nil if not locked)
	LastAttempt  time.Time          `bson:"last_attempt"`  // most recent attempt (for TTL cleanup)
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Store manages rate limit tracking for login attempts. Lookup errors fail
// open: a mongo hiccup must not lock every operator out of the console.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
}

// New creates a new rate limit Store with the given configuration.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:               db.Collection("rate_limits"),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
	}
}

// CheckAllowed checks if the given login_id is allowed to attempt login.
// Returns:
//   - allowed: true if login attempt should be processed
//   - remaining: number of attempts remaining before lockout (-1 if locked)
//   - lockedUntil: when the lockout expires (nil if not locked)
func (s *Store) CheckAllowed(ctx context.Context, loginID string) (allowed bool, remaining int, lockedUntil *time.Time) {
	loginID = normalize.Email(loginID)
	now := time.Now()

	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"login_id": loginID}).Decode(&attempt)
	if err != nil {
		// No record, or a lookup error (fail open).
		return true, s.maxAttempts, nil
	}

	if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
		return false, -1, attempt.LockedUntil
	}

	if now.After(attempt.WindowStart.Add(s.windowDuration)) {
		// Window expired; counter resets on the next failure.
		return true, s.maxAttempts, nil
	}

	remaining = s.maxAttempts - attempt.AttemptCount
	if remaining <= 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

// RecordFailure records a failed login attempt for the given login_id.
// Returns:
//   - lockedOut: true if this failure triggered a lockout
//   - lockedUntil: when the lockout expires (nil if not locked)
func (s *Store) RecordFailure(ctx context.Context, loginID string) (lockedOut bool, lockedUntil *time.Time) {
	loginID = normalize.Email(loginID)
	now := time.Now()

	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"login_id": loginID}).Decode(&attempt)

	switch {
	case err == mongo.ErrNoDocuments:
		attempt = Attempt{
			ID:           primitive.NewObjectID(),
			LoginID:      loginID,
			AttemptCount: 1,
			WindowStart:  now,
			LastAttempt:  now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		attempt.LockedUntil, lockedOut = s.lockIfExceeded(attempt.AttemptCount, now)
		_, _ = s.c.InsertOne(ctx, attempt)
		return lockedOut, attempt.LockedUntil

	case err != nil:
		// Lookup failed; don't lock (fail open).
		return false, nil
	}

	if now.After(attempt.WindowStart.Add(s.windowDuration)) {
		attempt.AttemptCount = 1
		attempt.WindowStart = now
		attempt.LockedUntil = nil
	} else {
		attempt.AttemptCount++
	}
	attempt.LastAttempt = now
	attempt.UpdatedAt = now
	attempt.LockedUntil, lockedOut = s.lockIfExceeded(attempt.AttemptCount, now)

	_, _ = s.c.UpdateOne(ctx,
		bson.M{"_id": attempt.ID},
		bson.M{"$set": bson.M{
			"attempt_count": attempt.AttemptCount,
			"window_start":  attempt.WindowStart,
			"locked_until":  attempt.LockedUntil,
			"last_attempt":  attempt.LastAttempt,
			"updated_at":    attempt.UpdatedAt,
		}},
	)

	return lockedOut, attempt.LockedUntil
}

func (s *Store) lockIfExceeded(count int, now time.Time) (*time.Time, bool) {
	if count < s.maxAttempts {
		return nil, false
	}
	until := now.Add(s.lockoutDuration)
	return &until, true
}

// ClearOnSuccess removes the rate limit record for the given login_id.
// Called after a successful login to reset the counter.
func (s *Store) ClearOnSuccess(ctx context.Context, loginID string) error {
	loginID = normalize.Email(loginID)
	_, err := s.c.DeleteOne(ctx, bson.M{"login_id": loginID})
	return err
}
