// internal/app/features/roster/handler.go
package roster

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/formutil"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
	"github.com/movehq/moveboard/internal/report"
	"github.com/movehq/moveboard/internal/upstream"
)

// Mount attaches every roster kind under its slug. Registration and the
// manage screens require a signed-in operator; lifecycle toggles are
// admin-only.
func Mount(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	for _, k := range Kinds() {
		kind := k
		r.Route("/"+kind.Slug, func(r chi.Router) {
			r.Use(sessionMgr.RequireSignedIn)
			r.Get("/", h.list(kind))
			r.Get("/new", h.showForm(kind))
			r.Post("/", h.create(kind))
			r.Group(func(r chi.Router) {
				r.Use(sessionMgr.RequireRole("admin"))
				r.Post("/{id}/deactivate", h.setStatus(kind, upstream.StatusInactive))
				r.Post("/{id}/activate", h.setStatus(kind, upstream.StatusActive))
			})
		})
	}
}

// FormVM is the view model for the registration forms.
type FormVM struct {
	formutil.Base
	Kind  Kind
	Teams []Row // team select on the employee form
	Name  string
	Email string
	Team  string
}

// ListVM is the view model for the manage screens.
type ListVM struct {
	viewdata.BaseVM
	Kind        Kind
	SearchQuery string
	Status      string

	Rows       []Row
	Total      int
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	BaseQuery  string
	Notice     string
}

func (h *Handler) showForm(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm := h.newFormVM(r, kind)
		templates.Render(w, r, "roster/form", vm)
	}
}

func (h *Handler) newFormVM(r *http.Request, kind Kind) FormVM {
	vm := FormVM{
		Base: formutil.NewBase(r, "Cadastrar "+kind.Singular, "/"),
		Kind: kind,
	}
	if kind.IsEmployee {
		// Active teams populate the employee form's select.
		teams, err := h.upstream.ListTeams(r.Context())
		if err != nil {
			h.logger.Warn("failed to load teams for employee form", zap.Error(err))
			return vm
		}
		for _, t := range teams {
			if t.Status == upstream.StatusActive {
				vm.Teams = append(vm.Teams, Row{ID: t.ID, Name: t.Name})
			}
		}
	}
	return vm
}

func (h *Handler) create(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.errLog.Log(r, "failed to parse roster form", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		err := kind.create(r.Context(), h.upstream, r)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				vm := h.newFormVM(r, kind)
				vm.SetError(vErr.Message)
				vm.Name = r.FormValue("name")
				vm.Email = r.FormValue("email")
				vm.Team = r.FormValue("team")
				templates.Render(w, r, "roster/form", vm)
				return
			}
			var apiErr *upstream.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				vm := h.newFormVM(r, kind)
				vm.SetError(apiErr.Message)
				vm.Name = r.FormValue("name")
				templates.Render(w, r, "roster/form", vm)
				return
			}
			h.errLog.Log(r, "upstream create failed", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/"+kind.Slug+"?created=1", http.StatusSeeOther)
	}
}

func (h *Handler) list(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		search := strings.TrimSpace(q.Get("search"))
		status := q.Get("status")
		if status != upstream.StatusActive && status != upstream.StatusInactive {
			status = ""
		}
		page := 1
		if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
			page = p
		}

		all, err := kind.list(r.Context(), h.upstream)
		if err != nil {
			h.errLog.Log(r, "upstream list failed", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		rows := filterRows(all, search, status)
		sortRows(rows)

		total := len(rows)
		totalPages := report.TotalPages(total, pageSize)
		if page > totalPages && totalPages > 0 {
			page = totalPages
		}
		paged := report.Paginate(rows, page, pageSize)

		vm := ListVM{
			BaseVM:      viewdata.NewBaseVM(r, kind.Title, "/"),
			Kind:        kind,
			SearchQuery: search,
			Status:      status,
			Rows:        paged,
			Total:       total,
			Page:        page,
			PrevPage:    page - 1,
			NextPage:    page + 1,
			TotalPages:  totalPages,
			BaseQuery: fmt.Sprintf("/%s?search=%s&status=%s",
				kind.Slug, url.QueryEscape(search), url.QueryEscape(status)),
		}
		if q.Get("created") == "1" {
			vm.Notice = kind.Singular + " cadastrado com sucesso."
		}
		if q.Get("updated") == "1" {
			vm.Notice = "Status atualizado."
		}

		templates.Render(w, r, "roster/list", vm)
	}
}

func (h *Handler) setStatus(kind Kind, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		if err := kind.setStatus(r.Context(), h.upstream, id, status); err != nil {
			var apiErr *upstream.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				http.Error(w, "Not Found", http.StatusNotFound)
				return
			}
			h.errLog.Log(r, "upstream status change failed", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if user, ok := auth.CurrentUser(r); ok {
			h.auditLogger.RosterStatusChanged(r.Context(), r, user.UserID(), kind.Slug, id, status)
		}
		h.logger.Info("roster status changed",
			zap.String("kind", kind.Slug),
			zap.String("id", id),
			zap.String("status", status),
		)
		http.Redirect(w, r, "/"+kind.Slug+"?updated=1", http.StatusSeeOther)
	}
}
