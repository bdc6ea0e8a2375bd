package awards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	savedfilterstore "github.com/movehq/moveboard/internal/app/store/savedfilters"
	"github.com/movehq/moveboard/internal/pdf"
	"github.com/movehq/moveboard/internal/testutil"
)

const awardsJSON = `[
	{"_id":"1","funcionario":{"_id":"e1","nome":"Bruno"},"pernoite":true,"data_pernoite":"05/03/2024","escada":false,"data_escada":"","horas":8,"valor":"R$ 1.200,50"},
	{"_id":"2","funcionario":{"_id":"e2","nome":"Alice"},"pernoite":false,"data_pernoite":"","escada":true,"data_escada":"2024-03-10T08:00:00","horas":"9","valor":300},
	{"_id":"3","funcionario":{"_id":"e3","nome":"Carla"},"pernoite":true,"data_pernoite":"12/04/2024","escada":false,"data_escada":"","horas":7,"valor":"abc"}
]`

func newTestHandler(t *testing.T, mux http.Handler, filters *savedfilterstore.Store) *Handler {
	t.Helper()
	testutil.MustBootTemplates(t)
	up := testutil.NewUpstreamClient(t, mux)
	h := NewHandler(up, filters, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	h.clock = func() time.Time {
		return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.Local)
	}
	return h
}

func awardsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", testutil.UpstreamJSON(http.StatusOK, awardsJSON))
	return mux
}

func TestIndexFiltersByMonth(t *testing.T) {
	h := newTestHandler(t, awardsMux(), nil)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards?month=3&year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "Bruno") || !strings.Contains(body, "Alice") {
		t.Error("March records missing")
	}
	if strings.Contains(body, "Carla") {
		t.Error("April record shown under month=3")
	}
	// Currency strings parse; the table re-renders them uniformly.
	if !strings.Contains(body, "R$ 1200,50") {
		t.Error("currency value not parsed and reformatted")
	}
	if !strings.Contains(body, "Exibindo 1–2 de 2") {
		t.Errorf("range line wrong: %s", body)
	}
}

func TestIndexSearchByName(t *testing.T) {
	h := newTestHandler(t, awardsMux(), nil)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards?search=ali&month=3&year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Alice") {
		t.Error("searched employee missing")
	}
	if strings.Contains(body, "Bruno") {
		t.Error("non-matching employee shown")
	}
}

func TestIndexSortByValueDescending(t *testing.T) {
	h := newTestHandler(t, awardsMux(), nil)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards?month=3&year=2024&sort=value&order=desc", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	body := rec.Body.String()
	bruno := strings.Index(body, "<td>Bruno</td>")
	alice := strings.Index(body, "<td>Alice</td>")
	if bruno == -1 || alice == -1 {
		t.Fatal("rows missing")
	}
	if bruno > alice {
		t.Error("descending value sort did not put Bruno (1200,50) first")
	}
}

func TestSortLinkToggles(t *testing.T) {
	p := params{Sort: "value", Order: "asc"}
	if got := p.SortLink("value"); !strings.Contains(got, "order=desc") {
		t.Errorf("clicking the active column should flip to desc, got %s", got)
	}
	if got := p.SortLink("name"); !strings.Contains(got, "sort=name") || !strings.Contains(got, "order=asc") {
		t.Errorf("clicking a new column should select it ascending, got %s", got)
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestHandler(t, awardsMux(), nil)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards/export.csv?month=3&year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ExportCSV(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 3 || body[0] != 0xEF || body[1] != 0xBB || body[2] != 0xBF {
		t.Error("missing UTF-8 BOM")
	}
	text := string(body[3:])
	if !strings.HasPrefix(text, "Funcionário,") {
		t.Errorf("header row wrong: %q", text[:40])
	}
	if !strings.Contains(text, "\r\n") {
		t.Error("CSV not CRLF-terminated")
	}
	// Exports ignore pagination: both March rows present.
	if !strings.Contains(text, "Bruno") || !strings.Contains(text, "Alice") {
		t.Error("export missing rows")
	}
	if strings.Contains(text, "Carla") {
		t.Error("export ignored the date filter")
	}
}

func TestExportPDF(t *testing.T) {
	h := newTestHandler(t, awardsMux(), nil)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards/export.pdf?month=3&year=2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ExportPDF(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("response is not a PDF")
	}
}

func TestAwardsTableTotalsRow(t *testing.T) {
	rows := []Row{
		{Employee: "Bruno", Overnight: true, OvernightDate: "05/03/2024", Value: 1200.50},
		{Employee: "Alice", Stairs: true, StairsDate: "10/03/2024", Value: 300},
	}
	tbl := awardsTable(rows, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))

	if len(tbl.Footer) != len(tbl.Columns) {
		t.Fatalf("footer has %d cells, want %d", len(tbl.Footer), len(tbl.Columns))
	}
	if tbl.Footer[0] != "2 registros" {
		t.Errorf("footer count = %q", tbl.Footer[0])
	}
	if want := FormatMoney(1500.50); tbl.Footer[len(tbl.Footer)-1] != want {
		t.Errorf("footer total = %q, want %q", tbl.Footer[len(tbl.Footer)-1], want)
	}

	data, err := pdf.Render(tbl)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("output is not a PDF")
	}
}

func postForm(t *testing.T, h http.HandlerFunc, target string, form url.Values, user testutil.TestUser) *testutil.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithCSRFToken(testutil.WithUser(req, user))
	rec := testutil.NewRecorder()
	h(rec, req)
	return rec
}

func TestSaveFilterBecomesDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	filters := savedfilterstore.New(db)
	h := newTestHandler(t, awardsMux(), filters)
	user := testutil.StaffUser()

	form := url.Values{
		"name":    {"Março 2024"},
		"month":   {"3"},
		"year":    {"2024"},
		"sort":    {"value"},
		"order":   {"desc"},
		"default": {"1"},
	}
	rec := postForm(t, h.SaveFilter, "/awards/filters", form, user)
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "saved=1") {
		t.Fatalf("save redirect = %q", loc)
	}

	// A bare load now redirects to the default filter's view.
	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/awards", user)
	rec2 := testutil.NewRecorder()
	h.Index(rec2, req)
	rec2.AssertStatus(t, http.StatusSeeOther)
	loc := rec2.Header().Get("Location")
	if !strings.Contains(loc, "month=3") || !strings.Contains(loc, "order=desc") {
		t.Errorf("default filter redirect = %q", loc)
	}
}

func TestDeleteFilterRequiresOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	filters := savedfilterstore.New(db)
	h := newTestHandler(t, awardsMux(), filters)
	owner := testutil.StaffUser()
	stranger := testutil.StaffUser()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ownerID, err := primitive.ObjectIDFromHex(owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	f, err := filters.Create(ctx, savedfilterstore.CreateInput{
		UserID:  ownerID,
		Feature: savedfilterstore.FeatureAwards,
		Name:    "Meu filtro",
		Filters: map[string]string{"month": "3"},
	})
	if err != nil {
		t.Fatal(err)
	}

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodPost, "/awards/filters/"+f.ID.Hex()+"/delete", stranger)
	req = withChiParam(req, "id", f.ID.Hex())
	rec := testutil.NewRecorder()
	h.DeleteFilter(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedRequestWithCSRF(http.MethodPost, "/awards/filters/"+f.ID.Hex()+"/delete", owner)
	req = withChiParam(req, "id", f.ID.Hex())
	rec = testutil.NewRecorder()
	h.DeleteFilter(rec, req)
	rec.AssertRedirect(t, "/awards?saved=deleted")
}

func withChiParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
