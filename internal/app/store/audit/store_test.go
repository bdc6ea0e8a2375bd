package audit

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movehq/moveboard/internal/testutil"
)

func TestLogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()

	events := []Event{
		{Category: CategoryAuth, EventType: EventLoginFailedWrongPassword, UserID: &userID, IP: "10.0.0.1", FailureReason: "wrong_password"},
		{Category: CategoryAuth, EventType: EventLoginSuccess, UserID: &userID, IP: "10.0.0.1", Success: true},
		{Category: CategoryData, EventType: EventPaymentDeleted, ActorID: &actorID, IP: "10.0.0.2", Success: true, Details: map[string]string{"payment_id": "abc123"}},
	}
	for _, ev := range events {
		if err := s.Log(ctx, ev); err != nil {
			t.Fatalf("Log(%s): %v", ev.EventType, err)
		}
		// Mongo stores timestamps at millisecond precision; keep the
		// insertion order distinguishable for the sort assertion below.
		time.Sleep(2 * time.Millisecond)
	}

	got, err := s.Query(ctx, QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events for user, want 2", len(got))
	}
	// Newest first.
	if got[0].EventType != EventLoginSuccess {
		t.Errorf("first event = %s, want %s", got[0].EventType, EventLoginSuccess)
	}
	if got[0].ID.IsZero() || got[0].CreatedAt.IsZero() {
		t.Error("Log did not fill ID and CreatedAt")
	}

	got, err = s.Query(ctx, QueryFilter{Category: CategoryData})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Details["payment_id"] != "abc123" {
		t.Errorf("data query = %+v, want the payment deletion with details", got)
	}
}

func TestQueryTimeRangeAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		if err := s.Log(ctx, Event{Category: CategoryAuth, EventType: EventLogout, UserID: &userID, Success: true}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Query(ctx, QueryFilter{UserID: &userID, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("limited query returned %d events, want 2", len(got))
	}

	got, err = s.Query(ctx, QueryFilter{UserID: &userID, Limit: 2, Offset: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("offset query returned %d events, want 1", len(got))
	}

	future := time.Now().Add(time.Hour)
	got, err = s.Query(ctx, QueryFilter{UserID: &userID, StartTime: &future})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("future window returned %d events, want 0", len(got))
	}

	n, err := s.CountByFilter(ctx, QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("CountByFilter = %d, want 5", n)
	}
}
