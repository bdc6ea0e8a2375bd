// internal/app/features/awards/handler.go
package awards

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	savedfilterstore "github.com/movehq/moveboard/internal/app/store/savedfilters"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/normalize"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
	"github.com/movehq/moveboard/internal/pdf"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

// Handler serves the awards report.
type Handler struct {
	upstream *upstream.Client
	filters  *savedfilterstore.Store
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
	clock    report.Clock
}

// NewHandler creates the awards handler. filters may be nil; the saved
// filter panel then stays empty and saving is rejected.
func NewHandler(up *upstream.Client, filters *savedfilterstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{upstream: up, filters: filters, errLog: errLog, logger: logger, clock: time.Now}
}

// Routes returns the /awards router.
func (h *Handler) Routes(sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.Index)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.pdf", h.ExportPDF)
	r.Post("/filters", h.SaveFilter)
	r.Get("/filters/{id}/apply", h.ApplyFilter)
	r.Post("/filters/{id}/default", h.SetDefaultFilter)
	r.Post("/filters/{id}/delete", h.DeleteFilter)
	return r
}

// IndexVM is the view model for the report page.
type IndexVM struct {
	viewdata.BaseVM
	Params params

	Rows       []Row
	Total      int
	RangeStart int
	RangeEnd   int
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	BaseQuery  string
	ExportCSV  string
	ExportPDF  string

	SavedFilters []savedfilterstore.SavedFilter
	Notice       string
}

// Index renders the report table. A request with no querystring redirects
// to the user's default saved filter when one exists.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.RawQuery == "" {
		if target, ok := h.defaultFilterQuery(r); ok {
			http.Redirect(w, r, "/awards?"+target, http.StatusSeeOther)
			return
		}
	}

	p := parseParams(r)
	res, ok := h.run(w, r, p)
	if !ok {
		return
	}

	rows := make([]Row, 0, len(res.Rows))
	for _, rec := range res.Rows {
		rows = append(rows, toRow(rec))
	}

	vm := IndexVM{
		BaseVM: viewdata.NewBaseVM(r, "Relatório de prêmios", "/"),
		Params: p,

		Rows:       rows,
		Total:      res.Total,
		RangeStart: res.RangeStart,
		RangeEnd:   res.RangeEnd,
		Page:       res.Page,
		PrevPage:   res.Page - 1,
		NextPage:   res.Page + 1,
		TotalPages: res.TotalPages,
		BaseQuery:  "/awards?" + p.values().Encode(),
		ExportCSV:  "/awards/export.csv?" + p.values().Encode(),
		ExportPDF:  "/awards/export.pdf?" + p.values().Encode(),
	}

	if h.filters != nil {
		if user, signedIn := auth.CurrentUser(r); signedIn {
			saved, err := h.filters.ListForUser(r.Context(), user.UserID(), savedfilterstore.FeatureAwards)
			if err != nil {
				h.errLog.Log(r, "failed to list saved filters", err)
			} else {
				vm.SavedFilters = saved
			}
		}
	}
	switch r.URL.Query().Get("saved") {
	case "1":
		vm.Notice = "Filtro salvo."
	case "deleted":
		vm.Notice = "Filtro excluído."
	case "default":
		vm.Notice = "Filtro padrão atualizado."
	}

	templates.Render(w, r, "awards/index", vm)
}

// run fetches the records and applies the pipeline. On upstream failure it
// writes the error response and returns ok=false.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, p params) (report.Result[upstream.AwardRecord], bool) {
	recs, err := h.upstream.ListAwards(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list awards failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return report.Result[upstream.AwardRecord]{}, false
	}

	q := p.query()
	res := report.Run(recs, q, upstream.AwardRecord.Dates, matchEmployee, lessFor(q.Sort.Key), report.Today(h.clock))
	return res, true
}

// exportRows returns the complete filtered, sorted row set with pagination
// disabled; exports always cover every matching record.
func (h *Handler) exportRows(w http.ResponseWriter, r *http.Request) ([]Row, bool) {
	p := parseParams(r)
	p.Page = 1

	recs, err := h.upstream.ListAwards(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list awards failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}

	q := p.query()
	q.PageSize = 0 // Paginate is skipped below; keep every row
	filtered := report.Filter(recs, q.Criteria, upstream.AwardRecord.Dates, report.Today(h.clock))
	if needle := report.FoldName(q.Search); needle != "" {
		kept := filtered[:0:0]
		for _, rec := range filtered {
			if matchEmployee(rec, needle) {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}
	filtered = report.SortBy(filtered, lessFor(q.Sort.Key), q.Sort.Order)

	rows := make([]Row, 0, len(filtered))
	for _, rec := range filtered {
		rows = append(rows, toRow(rec))
	}
	return rows, true
}

// ExportCSV streams the filtered report as a CSV download.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.exportRows(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="premios.csv"`)
	if err := writeCSV(w, rows); err != nil {
		h.errLog.Log(r, "csv export failed", err)
	}
}

// ExportPDF streams the filtered report as a PDF download.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.exportRows(w, r)
	if !ok {
		return
	}

	data, err := pdf.Render(awardsTable(rows, time.Now()))
	if err != nil {
		h.errLog.Log(r, "pdf export failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="premios.pdf"`)
	w.Write(data)
}

func awardsTable(rows []Row, now time.Time) pdf.Table {
	t := pdf.Table{
		Title:       "Relatório de prêmios",
		GeneratedAt: now,
		Columns: []pdf.Column{
			{Header: "Funcionário", Width: 3},
			{Header: "Pernoite", Width: 1},
			{Header: "Data pernoite", Width: 2},
			{Header: "Escada", Width: 1},
			{Header: "Data escada", Width: 2},
			{Header: "Valor", Width: 2, Right: true},
		},
	}
	var total float64
	for _, row := range rows {
		total += row.Value
		t.Rows = append(t.Rows, []string{
			row.Employee,
			yesNo(row.Overnight),
			row.OvernightDate,
			yesNo(row.Stairs),
			row.StairsDate,
			FormatMoney(row.Value),
		})
	}
	t.Footer = []string{fmt.Sprintf("%d registros", len(rows)), "", "", "", "Total", FormatMoney(total)}
	return t
}

// SaveFilter stores the submitted view state under a name for the current
// user.
func (h *Handler) SaveFilter(w http.ResponseWriter, r *http.Request) {
	if h.filters == nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	user, signedIn := auth.CurrentUser(r)
	if !signedIn {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := normalize.Name(r.FormValue("name"))
	if name == "" || len(name) > 100 {
		http.Redirect(w, r, "/awards?"+r.FormValue("state"), http.StatusSeeOther)
		return
	}

	p := paramsFromForm(r)
	_, err := h.filters.Create(r.Context(), savedfilterstore.CreateInput{
		UserID:    user.UserID(),
		Feature:   savedfilterstore.FeatureAwards,
		Name:      name,
		Filters:   p.filterMap(),
		IsDefault: r.FormValue("default") == "1",
	})
	if err != nil {
		if errors.Is(err, savedfilterstore.ErrDuplicateName) {
			http.Redirect(w, r, "/awards?"+p.values().Encode(), http.StatusSeeOther)
			return
		}
		h.errLog.Log(r, "failed to save filter", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	v := p.values()
	v.Set("saved", "1")
	http.Redirect(w, r, "/awards?"+v.Encode(), http.StatusSeeOther)
}

// paramsFromForm reads the view state out of the save-filter form's hidden
// fields.
func paramsFromForm(r *http.Request) params {
	return params{
		Day:    strings.TrimSpace(r.FormValue("day")),
		Month:  strings.TrimSpace(r.FormValue("month")),
		Year:   strings.TrimSpace(r.FormValue("year")),
		Search: strings.TrimSpace(r.FormValue("search")),
		Sort:   r.FormValue("sort"),
		Order:  r.FormValue("order"),
		Page:   1,
	}
}

// ApplyFilter redirects to the report with a saved filter's params.
func (h *Handler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadOwnFilter(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, "/awards?"+paramsFromMap(f.Filters).Encode(), http.StatusSeeOther)
}

// SetDefaultFilter marks a saved filter as the user's default.
func (h *Handler) SetDefaultFilter(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadOwnFilter(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)
	if err := h.filters.SetDefault(r.Context(), f.ID, user.UserID()); err != nil {
		h.errLog.Log(r, "failed to set default filter", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/awards?saved=default", http.StatusSeeOther)
}

// DeleteFilter removes a saved filter the user owns.
func (h *Handler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadOwnFilter(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)
	if err := h.filters.Delete(r.Context(), f.ID, user.UserID()); err != nil {
		if errors.Is(err, savedfilterstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.errLog.Log(r, "failed to delete filter", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/awards?saved=deleted", http.StatusSeeOther)
}

// loadOwnFilter resolves the {id} route param to a saved filter owned by
// the current user. It writes the error response itself on failure.
func (h *Handler) loadOwnFilter(w http.ResponseWriter, r *http.Request) (*savedfilterstore.SavedFilter, bool) {
	if h.filters == nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	user, signedIn := auth.CurrentUser(r)
	if !signedIn {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	f, err := h.filters.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, savedfilterstore.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.errLog.Log(r, "failed to load saved filter", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if f.UserID != user.UserID() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return f, true
}

// defaultFilterQuery returns the encoded querystring of the user's default
// saved filter, when one exists and carries at least one param.
func (h *Handler) defaultFilterQuery(r *http.Request) (string, bool) {
	if h.filters == nil {
		return "", false
	}
	user, signedIn := auth.CurrentUser(r)
	if !signedIn {
		return "", false
	}
	f, err := h.filters.GetDefault(r.Context(), user.UserID(), savedfilterstore.FeatureAwards)
	if err != nil || f == nil {
		return "", false
	}
	v := paramsFromMap(f.Filters)
	if len(v) == 0 {
		return "", false
	}
	return v.Encode(), true
}
