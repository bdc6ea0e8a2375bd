package login

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/store/audit"
	"github.com/movehq/moveboard/internal/app/store/ratelimit"
	userstore "github.com/movehq/moveboard/internal/app/store/users"
	"github.com/movehq/moveboard/internal/app/system/auditlog"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/authutil"
	"github.com/movehq/moveboard/internal/domain/models"
	"github.com/movehq/moveboard/internal/testutil"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) (*Handler, *userstore.Store) {
	t.Helper()
	testutil.MustBootTemplates(t)

	db := testutil.SetupTestDB(t)
	mgr, err := auth.NewSessionManager(testSessionKey, "moveboard-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	users := userstore.New(db)
	mgr.SetUserFetcher(userstore.NewFetcher(db, zap.NewNop()))

	h := NewHandler(
		db,
		mgr,
		errorsfeature.NewErrorLogger(zap.NewNop()),
		auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{Auth: "db"}),
		ratelimit.New(db, 3, 15*time.Minute, 30*time.Minute),
		zap.NewNop(),
	)
	return h, users
}

func createUser(t *testing.T, users *userstore.Store, loginID, password, status string) {
	t.Helper()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err = users.Create(ctx, models.User{
		FullName:     "Operadora Teste",
		LoginID:      loginID,
		PasswordHash: hash,
		Role:         models.RoleStaff,
		Status:       status,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func postLogin(h *Handler, loginID, password string) *httptest.ResponseRecorder {
	form := url.Values{"login_id": {loginID}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	h, users := newTestHandler(t)
	createUser(t, users, "ana@example.com", "correta-senha1", models.StatusActive)

	rec := postLogin(h, "ana@example.com", "correta-senha1")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q", loc)
	}
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "moveboard-session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie set")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, users := newTestHandler(t)
	createUser(t, users, "ana@example.com", "correta-senha1", models.StatusActive)

	rec := postLogin(h, "ana@example.com", "errada")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Credenciais inválidas") {
		t.Error("error message missing from re-rendered form")
	}
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postLogin(h, "ninguem@example.com", "qualquer")

	// Unknown user and wrong password read identically.
	if !strings.Contains(rec.Body.String(), "Credenciais inválidas") {
		t.Error("unknown user leaked a different message")
	}
}

func TestLoginDisabledUser(t *testing.T) {
	h, users := newTestHandler(t)
	createUser(t, users, "ana@example.com", "correta-senha1", models.StatusDisabled)

	rec := postLogin(h, "ana@example.com", "correta-senha1")

	if !strings.Contains(rec.Body.String(), "Conta desativada") {
		t.Error("disabled account allowed or wrong message")
	}
}

func TestLoginRateLimited(t *testing.T) {
	h, users := newTestHandler(t)
	createUser(t, users, "ana@example.com", "correta-senha1", models.StatusActive)

	// Limit is 3 in newTestHandler; the third failure locks.
	for i := 0; i < 3; i++ {
		postLogin(h, "ana@example.com", "errada")
	}
	rec := postLogin(h, "ana@example.com", "correta-senha1")

	if !strings.Contains(rec.Body.String(), "Muitas tentativas") {
		t.Error("lockout message missing after repeated failures")
	}
}

func TestShowLoginRedirectsSignedIn(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/login", testutil.StaffUser())
	rec := httptest.NewRecorder()
	h.ShowLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect home", rec.Code)
	}
}

func TestSafeReturnURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "/"},
		{"/awards?month=03", "/awards?month=03"},
		{"https://evil.test/", "/"},
		{"//evil.test", "/"},
	}
	for _, tt := range tests {
		if got := safeReturnURL(tt.raw); got != tt.want {
			t.Errorf("safeReturnURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
