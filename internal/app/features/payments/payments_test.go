package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/pdf"
	"github.com/movehq/moveboard/internal/testutil"
)

const paymentsJSON = `[
	{"_id":"p1","autonomo":{"_id":"f1","nome":"Marcos"},"diaria":true,"data_diaria":"05/03/2024","escada":false,"data_escada":"","pagar":"R$ 150,00"},
	{"_id":"p2","autonomo":{"_id":"f1","nome":"Marcos"},"diaria":true,"data_diaria":"06/03/2024","escada":true,"data_escada":"06/03/2024","pagar":200},
	{"_id":"p3","autonomo":{"_id":"f2","nome":"Paula"},"diaria":false,"data_diaria":"","escada":true,"data_escada":"2024-03-07","pagar":"80"},
	{"_id":"p4","autonomo":{"_id":"f1","nome":"Marcos"},"diaria":true,"data_diaria":"10/01/2024","escada":false,"data_escada":"","pagar":"999"}
]`

func newTestHandler(t *testing.T, mux http.Handler) *Handler {
	t.Helper()
	testutil.MustBootTemplates(t)
	up := testutil.NewUpstreamClient(t, mux)
	h := NewHandler(up, nil, nil, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	h.clock = func() time.Time {
		return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.Local)
	}
	return h
}

func paymentsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dados-autonomo", testutil.UpstreamJSON(http.StatusOK, paymentsJSON))
	return mux
}

func withChiParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestIndexDefaultsToTrailingWindow(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	// Clock pinned to 20/03/2024: the January row falls outside the window.
	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/payments", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "Marcos") || !strings.Contains(body, "Paula") {
		t.Error("in-window rows missing")
	}
	if strings.Contains(body, "999") {
		t.Error("out-of-window row shown")
	}
	if strings.Contains(body, "Total a pagar") {
		t.Error("totals panel shown without a name search")
	}
}

func TestIndexTotalsWithNameSearch(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/payments?search=marcos&start=01/03/2024&end=31/03/2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "Paula") {
		t.Error("non-matching freelancer shown")
	}
	// Two day rates, one stairs, 150 + 200.
	if !strings.Contains(body, "Diárias:</strong> 2") {
		t.Errorf("day count wrong: %s", body)
	}
	if !strings.Contains(body, "Escadas:</strong> 1") {
		t.Error("stairs count wrong")
	}
	if !strings.Contains(body, "R$ 350,00") {
		t.Error("money sum wrong")
	}
}

func TestIndexDateRange(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/payments?start=06/03/2024&end=07/03/2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "06/03/2024") || !strings.Contains(body, "07/03/2024") {
		t.Error("in-range rows missing")
	}
	if strings.Contains(body, "05/03/2024") {
		t.Error("row before the range shown")
	}
}

func TestIndexFlagFilter(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/payments?escada=1&start=01/03/2024&end=31/03/2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Index(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Paula") {
		t.Error("stairs row missing")
	}
	if strings.Contains(body, "R$ 150,00") {
		t.Error("non-stairs row shown under escada=1")
	}
}

func TestUpdateValueCarriesRowOver(t *testing.T) {
	var got map[string]any
	mux := paymentsMux()
	mux.HandleFunc("/api/dados-autonomo/p2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	})
	h := newTestHandler(t, mux)

	req := httptest.NewRequest(http.MethodPut, "/payments/p2", strings.NewReader(`{"value":"R$ 250,00"}`))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithCSRFToken(testutil.WithUser(req, testutil.AdminUser()))
	req = withChiParam(req, "id", "p2")
	rec := testutil.NewRecorder()

	h.UpdateValue(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got["pagar"] != "R$ 250,00" {
		t.Errorf("pagar = %v", got["pagar"])
	}
	// The other fields of the row survive the value edit.
	if got["diaria"] != true || got["data_diaria"] != "06/03/2024" || got["escada"] != true {
		t.Errorf("row fields not carried over: %v", got)
	}
}

func TestUpdateValueRejectsNonNumbers(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	req := httptest.NewRequest(http.MethodPut, "/payments/p2", strings.NewReader(`{"value":"muito"}`))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithCSRFToken(testutil.WithUser(req, testutil.AdminUser()))
	req = withChiParam(req, "id", "p2")
	rec := testutil.NewRecorder()

	h.UpdateValue(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestDeleteRedirects(t *testing.T) {
	var deleted string
	mux := paymentsMux()
	mux.HandleFunc("/api/dados-autonomo/p3", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = r.URL.Path
		}
		w.Write([]byte(`{}`))
	})
	h := newTestHandler(t, mux)

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodPost, "/payments/p3/delete", testutil.AdminUser())
	req = withChiParam(req, "id", "p3")
	rec := testutil.NewRecorder()

	h.Delete(rec, req)

	rec.AssertRedirect(t, "/payments?deleted=1")
	if deleted != "/api/dados-autonomo/p3" {
		t.Errorf("upstream delete path = %q", deleted)
	}
}

func TestExportPDF(t *testing.T) {
	h := newTestHandler(t, paymentsMux())

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/payments/export.pdf?start=01/03/2024&end=31/03/2024", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ExportPDF(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("response is not a PDF")
	}
}

func TestPaymentsTableTotalsRow(t *testing.T) {
	rows := []Row{
		{Freelancer: "Marcos", DayRate: true, DayDate: "05/03/2024", Owed: 150, OwedRaw: "R$ 150,00"},
		{Freelancer: "Paula", Stairs: true, StairsDate: "07/03/2024", Owed: 80, OwedRaw: "80"},
	}
	tbl := paymentsTable(rows, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))

	if len(tbl.Footer) != len(tbl.Columns) {
		t.Fatalf("footer has %d cells, want %d", len(tbl.Footer), len(tbl.Columns))
	}
	if tbl.Footer[0] != "2 registros" {
		t.Errorf("footer count = %q", tbl.Footer[0])
	}
	if want := FormatMoney(230); tbl.Footer[len(tbl.Footer)-1] != want {
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
