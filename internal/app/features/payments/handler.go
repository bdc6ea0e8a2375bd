// internal/app/features/payments/handler.go
package payments

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/system/auditlog"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/inputval"
	"github.com/movehq/moveboard/internal/app/system/jsonutil"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
	"github.com/movehq/moveboard/internal/pdf"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

// Handler serves the payments report.
type Handler struct {
	upstream    *upstream.Client
	fileStorage storage.Store // nil disables export archiving
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
	clock       report.Clock
}

// NewHandler creates the payments handler.
func NewHandler(up *upstream.Client, fileStorage storage.Store, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		upstream:    up,
		fileStorage: fileStorage,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
		clock:       time.Now,
	}
}

// Routes returns the /payments router. Viewing needs a signed-in operator;
// editing or deleting a payment row is admin-only.
func (h *Handler) Routes(sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.Index)
	r.Get("/export.pdf", h.ExportPDF)
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("admin"))
		r.Put("/{id}", h.UpdateValue)
		r.Post("/{id}/delete", h.Delete)
	})
	return r
}

// IndexVM is the view model for the report page.
type IndexVM struct {
	viewdata.BaseVM
	Params params

	Rows       []Row
	Totals     *Totals // nil unless a name search is active
	Total      int
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	BaseQuery  string
	ExportPDF  string
	Notice     string
}

// Index renders the payments table.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	filtered, ok := h.fetchFiltered(w, r, p)
	if !ok {
		return
	}
	sortRecords(filtered)

	total := len(filtered)
	totalPages := report.TotalPages(total, pageSize)
	paged := report.Paginate(filtered, p.Page, pageSize)

	rows := make([]Row, 0, len(paged))
	for _, rec := range paged {
		rows = append(rows, toRow(rec))
	}

	vm := IndexVM{
		BaseVM: viewdata.NewBaseVM(r, "Pagamentos de autônomos", "/"),
		Params: p,

		Rows:       rows,
		Total:      total,
		Page:       p.Page,
		PrevPage:   p.Page - 1,
		NextPage:   p.Page + 1,
		TotalPages: totalPages,
		BaseQuery:  p.baseQuery(),
		ExportPDF:  "/payments/export.pdf?" + p.values().Encode(),
	}
	// The totals panel only means something for a single freelancer; it
	// appears when the view is narrowed by name.
	if p.Search != "" {
		t := computeTotals(filtered)
		vm.Totals = &t
	}
	switch {
	case r.URL.Query().Get("deleted") == "1":
		vm.Notice = "Pagamento excluído."
	case r.URL.Query().Get("updated") == "1":
		vm.Notice = "Valor atualizado."
	}

	templates.Render(w, r, "payments/index", vm)
}

func (h *Handler) fetchFiltered(w http.ResponseWriter, r *http.Request, p params) ([]upstream.PaymentRecord, bool) {
	recs, err := h.upstream.ListPayments(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list payments failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return filterRecords(recs, p, report.Today(h.clock)), true
}

// updateBody is the inline-edit payload.
type updateBody struct {
	Value string `json:"value"`
}

// UpdateValue rewrites the owed amount of one payment row. The rest of the
// row is carried over unchanged; the upstream API only accepts whole-row
// updates.
func (h *Handler) UpdateValue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonutil.BadRequest(w, "missing payment id")
		return
	}

	var body updateBody
	if err := jsonutil.Decode(w, r, &body); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	value := strings.TrimSpace(body.Value)
	if !inputval.IsValidAmount(value) {
		jsonutil.BadRequest(w, "Valor deve ser um número.")
		return
	}

	recs, err := h.upstream.ListPayments(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list payments failed", err)
		jsonutil.InternalError(w, "upstream unavailable")
		return
	}
	var current *upstream.PaymentRecord
	for i := range recs {
		if recs[i].ID == id {
			current = &recs[i]
			break
		}
	}
	if current == nil {
		jsonutil.NotFound(w, "payment not found")
		return
	}

	err = h.upstream.UpdatePayment(r.Context(), id, upstream.PaymentInput{
		DayRate:    current.DayRate,
		DayDate:    current.DayDate,
		Stairs:     current.Stairs,
		StairsDate: current.StairsDate,
		Owed:       upstream.FlexNumber(value),
	})
	if err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			jsonutil.NotFound(w, "payment not found")
			return
		}
		h.errLog.Log(r, "upstream update payment failed", err)
		jsonutil.InternalError(w, "upstream unavailable")
		return
	}

	if user, signedIn := auth.CurrentUser(r); signedIn {
		h.auditLogger.PaymentUpdated(r.Context(), r, user.UserID(), id)
	}
	jsonutil.OK(w, map[string]string{"status": "updated"})
}

// Delete removes a payment row.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.upstream.DeletePayment(r.Context(), id); err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		h.errLog.Log(r, "upstream delete payment failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user, signedIn := auth.CurrentUser(r); signedIn {
		h.auditLogger.PaymentDeleted(r.Context(), r, user.UserID(), id)
	}
	http.Redirect(w, r, "/payments?deleted=1", http.StatusSeeOther)
}

// ExportPDF streams the filtered report as a PDF download and archives a
// copy in the export store.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	filtered, ok := h.fetchFiltered(w, r, p)
	if !ok {
		return
	}
	sortRecords(filtered)

	rows := make([]Row, 0, len(filtered))
	for _, rec := range filtered {
		rows = append(rows, toRow(rec))
	}

	data, err := pdf.Render(paymentsTable(rows, time.Now()))
	if err != nil {
		h.errLog.Log(r, "pdf export failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.archive(r, data)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="pagamentos.pdf"`)
	w.Write(data)
}

// archive keeps a copy of the export. Failures are logged, never surfaced;
// the download must not depend on the archive store.
func (h *Handler) archive(r *http.Request, data []byte) {
	if h.fileStorage == nil {
		return
	}

	now := time.Now().UTC()
	path := fmt.Sprintf("exports/payments/%04d/%02d/%s.pdf", now.Year(), int(now.Month()), uuid.New().String()[:8])
	opts := &storage.PutOptions{ContentType: "application/pdf"}
	if err := h.fileStorage.Put(r.Context(), path, bytes.NewReader(data), opts); err != nil {
		h.errLog.Log(r, "failed to archive payments export", err)
		return
	}
	h.logger.Info("payments export archived", zap.String("path", path))
}

func paymentsTable(rows []Row, now time.Time) pdf.Table {
	t := pdf.Table{
		Title:       "Pagamentos de autônomos",
		GeneratedAt: now,
		Columns: []pdf.Column{
			{Header: "Autônomo", Width: 3},
			{Header: "Diária", Width: 1},
			{Header: "Data diária", Width: 2},
			{Header: "Escada", Width: 1},
			{Header: "Data escada", Width: 2},
			{Header: "Valor", Width: 2, Right: true},
		},
	}
	var total float64
	for _, row := range rows {
		total += row.Owed
		t.Rows = append(t.Rows, []string{
			row.Freelancer,
			yesNo(row.DayRate),
			row.DayDate,
			yesNo(row.Stairs),
			row.StairsDate,
			row.OwedDisplay(),
		})
	}
	t.Footer = []string{fmt.Sprintf("%d registros", len(rows)), "", "", "", "Total", FormatMoney(total)}
	return t
}
