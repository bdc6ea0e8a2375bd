package home

import (
	"net/http"
	"testing"

	"github.com/movehq/moveboard/internal/testutil"
)

func TestIndexRendersNavigation(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler()

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/", testutil.StaffUser())
	rec := testutil.NewRecorder()

	h.Index(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	for _, want := range []string{"/employees/new", "/requests", "/awards", "/payments", "/hours/summary"} {
		rec.AssertContains(t, want)
	}
}
