package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movehq/moveboard/internal/app/system/auth"
)

func requestWithUser(u *auth.SessionUser) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if u == nil {
		return r
	}
	return auth.WithTestUser(r, u)
}

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()

	role, name, userID, ok := UserCtx(requestWithUser(&auth.SessionUser{
		ID: id.Hex(), Name: "Ana", Role: "Admin",
	}))
	if !ok || role != "admin" || name != "Ana" || userID != id {
		t.Errorf("got role=%q name=%q id=%v ok=%v", role, name, userID, ok)
	}

	// No user: visitor, fail closed.
	role, _, userID, ok = UserCtx(requestWithUser(nil))
	if ok || role != "visitor" || !userID.IsZero() {
		t.Errorf("visitor case: role=%q id=%v ok=%v", role, userID, ok)
	}

	// Malformed ID in session: fail closed.
	_, _, _, ok = UserCtx(requestWithUser(&auth.SessionUser{ID: "not-hex", Role: "admin"}))
	if ok {
		t.Error("malformed id should not authenticate")
	}
}

func TestRoleChecks(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	admin := requestWithUser(&auth.SessionUser{ID: id, Role: "admin"})
	staff := requestWithUser(&auth.SessionUser{ID: id, Role: "staff"})
	visitor := requestWithUser(nil)

	if !IsAdmin(admin) || IsAdmin(staff) || IsAdmin(visitor) {
		t.Error("IsAdmin misclassified a request")
	}
	if !IsLoggedIn(staff) || IsLoggedIn(visitor) {
		t.Error("IsLoggedIn misclassified a request")
	}
	if !HasRole(staff, "admin", "staff") {
		t.Error("HasRole should accept any listed role")
	}
	if HasRole(staff, "admin") {
		t.Error("HasRole should reject a missing role")
	}
	if !HasRole(admin, "ADMIN") {
		t.Error("HasRole should compare case-insensitively")
	}
}
