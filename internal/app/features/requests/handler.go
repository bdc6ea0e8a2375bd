// internal/app/features/requests/handler.go
package requests

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/formutil"
	"github.com/movehq/moveboard/internal/app/system/inputval"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

// Handler serves the delivery request screens.
type Handler struct {
	upstream *upstream.Client
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
	clock    report.Clock
}

// NewHandler creates the requests handler.
func NewHandler(up *upstream.Client, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{upstream: up, errLog: errLog, logger: logger, clock: time.Now}
}

// Routes returns the /requests router. Viewing and registering require a
// signed-in operator; closing or reopening a request is admin-only.
func (h *Handler) Routes(sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.List)
	r.Get("/new", h.ShowForm)
	r.Post("/", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("admin"))
		r.Post("/{id}/deactivate", h.setStatus(upstream.RequestStatusInactive))
		r.Post("/{id}/activate", h.setStatus(upstream.RequestStatusOngoing))
	})
	return r
}

// FormVM is the view model for the request registration form.
type FormVM struct {
	formutil.Base
	Teams    []string
	Vehicles []string

	Title       string
	DeliveryOn  string
	PickupOn    string
	Team        string
	Vehicle     string
	Description string
}

// ListVM is the view model for the request card list.
type ListVM struct {
	viewdata.BaseVM
	Day   string
	Month string
	Year  string

	Cards      []Card
	Total      int
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	BaseQuery  string
	Notice     string
}

// ShowForm renders the empty registration form.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	vm, err := h.newFormVM(r)
	if err != nil {
		h.errLog.Log(r, "failed to load request form options", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	templates.Render(w, r, "requests/form", vm)
}

func (h *Handler) newFormVM(r *http.Request) (FormVM, error) {
	vm := FormVM{Base: formutil.NewBase(r, "Nova solicitação", "/requests")}

	teams, err := h.upstream.ListTeams(r.Context())
	if err != nil {
		return vm, fmt.Errorf("list teams: %w", err)
	}
	for _, t := range teams {
		if t.Status == upstream.StatusActive {
			vm.Teams = append(vm.Teams, t.Name)
		}
	}

	vehicles, err := h.upstream.ListVehicles(r.Context())
	if err != nil {
		return vm, fmt.Errorf("list vehicles: %w", err)
	}
	for _, v := range vehicles {
		if v.Status == upstream.StatusActive {
			vm.Vehicles = append(vm.Vehicles, v.Name)
		}
	}

	return vm, nil
}

// Create validates the form and registers the request upstream.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse request form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in := parseInput(
		r.FormValue("title"),
		r.FormValue("delivery_on"),
		r.FormValue("pickup_on"),
		r.FormValue("team"),
		r.FormValue("vehicle"),
		r.FormValue("description"),
	)

	if result := inputval.Validate(in); result.HasErrors() {
		h.renderFormError(w, r, in, result.First())
		return
	}

	err := h.upstream.CreateRequest(r.Context(), upstream.RequestInput{
		Title:       in.Title,
		DeliveryOn:  in.DeliveryOn,
		PickupOn:    in.PickupOn,
		Team:        in.Team,
		Vehicle:     in.Vehicle,
		Description: in.Description,
		Status:      upstream.RequestStatusOngoing,
	})
	if err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			h.renderFormError(w, r, in, apiErr.Message)
			return
		}
		h.errLog.Log(r, "upstream create request failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/requests?created=1", http.StatusSeeOther)
}

func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, in requestInput, msg string) {
	vm, err := h.newFormVM(r)
	if err != nil {
		h.errLog.Log(r, "failed to load request form options", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	vm.SetError(msg)
	vm.Title = in.Title
	vm.DeliveryOn = in.DeliveryOn
	vm.PickupOn = in.PickupOn
	vm.Team = in.Team
	vm.Vehicle = in.Vehicle
	vm.Description = in.Description
	templates.Render(w, r, "requests/form", vm)
}

// List renders the card list. Day/month/year criteria filter on the
// delivery date; with no criteria the trailing 30-day window applies.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := report.Query{
		Criteria: report.Criteria{
			Day:   q.Get("day"),
			Month: q.Get("month"),
			Year:  q.Get("year"),
		},
		Page:     1,
		PageSize: pageSize,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		query.Page = p
	}

	recs, err := h.upstream.ListRequests(r.Context())
	if err != nil {
		h.errLog.Log(r, "upstream list requests failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sortRequests(recs)

	res := report.Run(recs, query, deliveryDate, nil, nil, report.Today(h.clock))

	cards := make([]Card, 0, len(res.Rows))
	for _, rec := range res.Rows {
		cards = append(cards, toCard(rec))
	}

	vm := ListVM{
		BaseVM: viewdata.NewBaseVM(r, "Solicitações", "/"),
		Day:    query.Criteria.Day,
		Month:  query.Criteria.Month,
		Year:   query.Criteria.Year,

		Cards:      cards,
		Total:      res.Total,
		Page:       res.Page,
		PrevPage:   res.Page - 1,
		NextPage:   res.Page + 1,
		TotalPages: res.TotalPages,
		BaseQuery: fmt.Sprintf("/requests?day=%s&month=%s&year=%s",
			url.QueryEscape(query.Criteria.Day),
			url.QueryEscape(query.Criteria.Month),
			url.QueryEscape(query.Criteria.Year)),
	}
	if q.Get("created") == "1" {
		vm.Notice = "Solicitação cadastrada com sucesso."
	}
	if q.Get("updated") == "1" {
		vm.Notice = "Status atualizado."
	}

	templates.Render(w, r, "requests/list", vm)
}

func (h *Handler) setStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		if err := h.upstream.SetRequestStatus(r.Context(), id, status); err != nil {
			var apiErr *upstream.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				http.NotFound(w, r)
				return
			}
			h.errLog.Log(r, "upstream request status change failed", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h.logger.Info("request status changed",
			zap.String("request_id", id),
			zap.String("status", status))
		http.Redirect(w, r, "/requests?updated=1", http.StatusSeeOther)
	}
}
