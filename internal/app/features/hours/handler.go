// internal/app/features/hours/handler.go
package hours

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/formutil"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

// Handler serves the hour entry forms and the summary report.
type Handler struct {
	upstream *upstream.Client
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
	clock    report.Clock
}

// NewHandler creates the hours handler.
func NewHandler(up *upstream.Client, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{upstream: up, errLog: errLog, logger: logger, clock: time.Now}
}

// Routes returns the /hours router.
func (h *Handler) Routes(sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/employees", h.showEmployeeForm)
	r.Post("/employees", h.createEmployeeHours)
	r.Get("/freelancers", h.showFreelancerForm)
	r.Post("/freelancers", h.createFreelancerHours)
	r.Get("/summary", h.Summary)
	return r
}

// FormVM is the view model for both entry forms.
type FormVM struct {
	formutil.Base
	Freelance bool     // freelancer variant: single date, no stairs column
	Subjects  []option // active employees or freelancers
	Subject   string   // sticky selection
}

type option struct {
	ID   string
	Name string
}

func (h *Handler) showEmployeeForm(w http.ResponseWriter, r *http.Request) {
	vm, err := h.newFormVM(r, false)
	if err != nil {
		h.errLog.Log(r, "failed to load hour form options", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	templates.Render(w, r, "hours/form", vm)
}

func (h *Handler) showFreelancerForm(w http.ResponseWriter, r *http.Request) {
	vm, err := h.newFormVM(r, true)
	if err != nil {
		h.errLog.Log(r, "failed to load hour form options", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	templates.Render(w, r, "hours/form", vm)
}

func (h *Handler) newFormVM(r *http.Request, freelance bool) (FormVM, error) {
	title := "Horas de funcionário"
	if freelance {
		title = "Horas de autônomo"
	}
	vm := FormVM{
		Base:      formutil.NewBase(r, title, "/"),
		Freelance: freelance,
	}

	if freelance {
		recs, err := h.upstream.ListFreelancers(r.Context())
		if err != nil {
			return vm, fmt.Errorf("list freelancers: %w", err)
		}
		for _, f := range recs {
			if f.Status == upstream.StatusActive {
				vm.Subjects = append(vm.Subjects, option{ID: f.ID, Name: f.Name})
			}
		}
		return vm, nil
	}

	recs, err := h.upstream.ListEmployees(r.Context())
	if err != nil {
		return vm, fmt.Errorf("list employees: %w", err)
	}
	for _, e := range recs {
		if e.Status == upstream.StatusActive {
			vm.Subjects = append(vm.Subjects, option{ID: e.ID, Name: e.Name})
		}
	}
	return vm, nil
}

func (h *Handler) createEmployeeHours(w http.ResponseWriter, r *http.Request) {
	h.createHours(w, r, false, func(ctx context.Context, subjectID string, row dayRow) error {
		return h.upstream.CreateEmployeeHours(ctx, row.employeeInput(subjectID))
	})
}

func (h *Handler) createFreelancerHours(w http.ResponseWriter, r *http.Request) {
	h.createHours(w, r, true, func(ctx context.Context, subjectID string, row dayRow) error {
		return h.upstream.CreateFreelancerHours(ctx, row.freelancerInput(subjectID))
	})
}

func (h *Handler) createHours(w http.ResponseWriter, r *http.Request, freelance bool, post func(context.Context, string, dayRow) error) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse hours form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	subjectID := r.FormValue("subject")
	if subjectID == "" {
		h.renderFormError(w, r, freelance, subjectID, "Selecione quem trabalhou.")
		return
	}

	rows, msg := parseDayRows(r.Form)
	if msg != "" {
		h.renderFormError(w, r, freelance, subjectID, msg)
		return
	}

	for _, row := range rows {
		if err := post(r.Context(), subjectID, row); err != nil {
			h.errLog.Log(r, "upstream create hours failed", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	h.logger.Info("hour entries recorded",
		zap.String("subject_id", subjectID),
		zap.Bool("freelancer", freelance),
		zap.Int("days", len(rows)))

	target := "/hours/employees?created=1"
	if freelance {
		target = "/hours/freelancers?created=1"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, freelance bool, subject, msg string) {
	vm, err := h.newFormVM(r, freelance)
	if err != nil {
		h.errLog.Log(r, "failed to load hour form options", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	vm.SetError(msg)
	vm.Subject = subject
	templates.Render(w, r, "hours/form", vm)
}

// SummaryVM is the view model for the aggregated hours screen.
type SummaryVM struct {
	viewdata.BaseVM
	Params summaryParams

	Rows       []SummaryRow
	Total      int
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	BaseQuery  string
	Notice     string
}

// Summary renders the per-freelancer totals: hours, overtime beyond the
// monthly threshold, and overnight count.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	p := parseSummaryParams(r)

	recs, err := h.upstream.ListFreelancerHours(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list hours failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows, total, totalPages := summarize(recs, p, report.Today(h.clock))

	vm := SummaryVM{
		BaseVM: viewdata.NewBaseVM(r, "Resumo de horas", "/"),
		Params: p,

		Rows:       rows,
		Total:      total,
		Page:       p.Page,
		PrevPage:   p.Page - 1,
		NextPage:   p.Page + 1,
		TotalPages: totalPages,
		BaseQuery:  "/hours/summary?" + p.values().Encode(),
	}
	if r.URL.Query().Get("created") == "1" {
		vm.Notice = "Horas registradas."
	}

	templates.Render(w, r, "hours/summary", vm)
}
