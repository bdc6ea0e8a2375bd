package ratelimit

import (
	"testing"
	"time"

	"github.com/movehq/moveboard/internal/testutil"
)

func TestCheckAllowedFreshLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	allowed, remaining, lockedUntil := s.CheckAllowed(ctx, "ana@example.com")
	if !allowed || remaining != 5 || lockedUntil != nil {
		t.Errorf("fresh login: allowed=%v remaining=%d locked=%v", allowed, remaining, lockedUntil)
	}
}

func TestLockoutAfterMaxFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, 3, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const login = "Ana@Example.com" // mixed case on purpose

	for i := 0; i < 2; i++ {
		if locked, _ := s.RecordFailure(ctx, login); locked {
			t.Fatalf("locked after %d failures, limit is 3", i+1)
		}
	}

	locked, until := s.RecordFailure(ctx, login)
	if !locked || until == nil {
		t.Fatal("third failure should trigger lockout")
	}
	if until.Before(time.Now().Add(25 * time.Minute)) {
		t.Errorf("lockout expiry too soon: %v", until)
	}

	// Lookups are case-insensitive.
	allowed, remaining, lockedUntil := s.CheckAllowed(ctx, "ana@example.com")
	if allowed || remaining != -1 || lockedUntil == nil {
		t.Errorf("locked account: allowed=%v remaining=%d", allowed, remaining)
	}
}

func TestRemainingCountsDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, 5, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s.RecordFailure(ctx, "bruno@example.com")
	s.RecordFailure(ctx, "bruno@example.com")

	allowed, remaining, _ := s.CheckAllowed(ctx, "bruno@example.com")
	if !allowed || remaining != 3 {
		t.Errorf("after 2 of 5 failures: allowed=%v remaining=%d", allowed, remaining)
	}
}

func TestClearOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, 3, 15*time.Minute, 30*time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s.RecordFailure(ctx, "carla@example.com")
	s.RecordFailure(ctx, "carla@example.com")
	if err := s.ClearOnSuccess(ctx, "carla@example.com"); err != nil {
		t.Fatalf("ClearOnSuccess: %v", err)
	}

	_, remaining, _ := s.CheckAllowed(ctx, "carla@example.com")
	if remaining != 3 {
		t.Errorf("counter should reset after success, remaining = %d", remaining)
	}
}
