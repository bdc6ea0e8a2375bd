package validators

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/movehq/moveboard/internal/testutil"
)

func TestEnsureAllIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatal(err)
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "rate_limits", "audit_logs", "saved_filters"} {
		if !have[want] {
			t.Errorf("collection %q missing", want)
		}
	}
}

func TestUsersValidatorRejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	now := time.Now()
	good := bson.M{
		"full_name": "Ana", "full_name_ci": "ana",
		"login_id": "ana@example.com", "login_id_ci": "ana@example.com",
		"password_hash": "x", "role": "staff", "status": "active",
		"created_at": now, "updated_at": now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, good); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	bad := bson.M{
		"full_name": "Eve", "full_name_ci": "eve",
		"login_id": "eve@example.com", "login_id_ci": "eve@example.com",
		"password_hash": "x", "role": "superuser", "status": "active",
	}
	if _, err := db.Collection("users").InsertOne(ctx, bad); err == nil {
		t.Error("user with unknown role accepted")
	}
}

func TestAuditValidatorRequiresCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	bad := bson.M{"event_type": "login_success", "created_at": time.Now()}
	if _, err := db.Collection("audit_logs").InsertOne(ctx, bad); err == nil {
		t.Error("audit event without category accepted")
	}
}
