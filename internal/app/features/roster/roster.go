// Package roster serves the registration and manage screens for the four
// record kinds the company tracks: employees, freelancers, teams, and
// vehicles. All data lives behind the operations API; this package only
// shapes forms and lists around it.
package roster

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/system/auditlog"
	"github.com/movehq/moveboard/internal/app/system/authutil"
	"github.com/movehq/moveboard/internal/app/system/inputval"
	"github.com/movehq/moveboard/internal/app/system/normalize"
	"github.com/movehq/moveboard/internal/upstream"
)

const pageSize = 10

// Row is the list-screen projection shared by all four kinds.
type Row struct {
	ID     string
	Name   string
	Detail string // employee email or team; empty for other kinds
	Status string
}

// Active reports whether the row is in the active status.
func (r Row) Active() bool {
	return r.Status == upstream.StatusActive
}

// Kind describes one roster record kind and binds it to its upstream
// operations.
type Kind struct {
	Slug       string // URL segment, e.g. "employees"
	Title      string // list heading
	Singular   string // form heading
	IsEmployee bool   // employees carry email/password/team fields

	list      func(ctx context.Context, c *upstream.Client) ([]Row, error)
	create    func(ctx context.Context, c *upstream.Client, r *http.Request) error
	setStatus func(ctx context.Context, c *upstream.Client, id, status string) error
}

// employeeInput is the employee registration form.
type employeeInput struct {
	Name     string `validate:"required,max=200" label:"Nome"`
	Email    string `validate:"required,email,max=254" label:"E-mail"`
	Password string `validate:"required,min=8,max=128" label:"Senha"`
	Team     string `validate:"max=200" label:"Equipe"`
}

// namedInput is the single-field registration form the other kinds share.
type namedInput struct {
	Name string `validate:"required,max=200" label:"Nome"`
}

// Kinds returns the four roster kinds in display order.
func Kinds() []Kind {
	return []Kind{
		{
			Slug: "employees", Title: "Funcionários", Singular: "Funcionário", IsEmployee: true,
			list: func(ctx context.Context, c *upstream.Client) ([]Row, error) {
				recs, err := c.ListEmployees(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]Row, 0, len(recs))
				for _, e := range recs {
					detail := e.Email
					if e.Team != "" {
						detail = e.Email + " · " + e.Team
					}
					rows = append(rows, Row{ID: e.ID, Name: e.Name, Detail: detail, Status: e.Status})
				}
				return rows, nil
			},
			create: func(ctx context.Context, c *upstream.Client, r *http.Request) error {
				in := employeeInput{
					Name:     normalize.Name(r.FormValue("name")),
					Email:    normalize.Email(r.FormValue("email")),
					Password: r.FormValue("password"),
					Team:     normalize.Name(r.FormValue("team")),
				}
				if result := inputval.Validate(in); result.HasErrors() {
					return &ValidationError{Message: result.First()}
				}
				if err := authutil.ValidatePassword(in.Password); err != nil {
					return &ValidationError{Message: "Senha fraca: " + authutil.PasswordRules()}
				}
				return c.CreateEmployee(ctx, upstream.EmployeeInput{
					Name:     in.Name,
					Email:    in.Email,
					Password: in.Password,
					Team:     in.Team,
					Status:   upstream.StatusActive,
				})
			},
			setStatus: func(ctx context.Context, c *upstream.Client, id, status string) error {
				return c.SetEmployeeStatus(ctx, id, status)
			},
		},
		{
			Slug: "freelancers", Title: "Autônomos", Singular: "Autônomo",
			list: func(ctx context.Context, c *upstream.Client) ([]Row, error) {
				recs, err := c.ListFreelancers(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]Row, 0, len(recs))
				for _, f := range recs {
					rows = append(rows, Row{ID: f.ID, Name: f.Name, Status: f.Status})
				}
				return rows, nil
			},
			create: func(ctx context.Context, c *upstream.Client, r *http.Request) error {
				in, err := parseNamed(r)
				if err != nil {
					return err
				}
				return c.CreateFreelancer(ctx, upstream.FreelancerInput{Name: in.Name, Status: upstream.StatusActive})
			},
			setStatus: func(ctx context.Context, c *upstream.Client, id, status string) error {
				return c.SetFreelancerStatus(ctx, id, status)
			},
		},
		{
			Slug: "teams", Title: "Equipes", Singular: "Equipe",
			list: func(ctx context.Context, c *upstream.Client) ([]Row, error) {
				recs, err := c.ListTeams(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]Row, 0, len(recs))
				for _, t := range recs {
					rows = append(rows, Row{ID: t.ID, Name: t.Name, Status: t.Status})
				}
				return rows, nil
			},
			create: func(ctx context.Context, c *upstream.Client, r *http.Request) error {
				in, err := parseNamed(r)
				if err != nil {
					return err
				}
				return c.CreateTeam(ctx, upstream.TeamInput{Name: in.Name, Status: upstream.StatusActive})
			},
			setStatus: func(ctx context.Context, c *upstream.Client, id, status string) error {
				return c.SetTeamStatus(ctx, id, status)
			},
		},
		{
			Slug: "vehicles", Title: "Veículos", Singular: "Veículo",
			list: func(ctx context.Context, c *upstream.Client) ([]Row, error) {
				recs, err := c.ListVehicles(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]Row, 0, len(recs))
				for _, v := range recs {
					rows = append(rows, Row{ID: v.ID, Name: v.Name, Status: v.Status})
				}
				return rows, nil
			},
			create: func(ctx context.Context, c *upstream.Client, r *http.Request) error {
				in, err := parseNamed(r)
				if err != nil {
					return err
				}
				return c.CreateVehicle(ctx, upstream.VehicleInput{Name: in.Name, Status: upstream.StatusActive})
			},
			setStatus: func(ctx context.Context, c *upstream.Client, id, status string) error {
				return c.SetVehicleStatus(ctx, id, status)
			},
		},
	}
}

// ValidationError marks a form input problem; the handler re-renders the
// form with the message instead of treating it as a server fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func parseNamed(r *http.Request) (namedInput, error) {
	in := namedInput{Name: normalize.Name(r.FormValue("name"))}
	if result := inputval.Validate(in); result.HasErrors() {
		return in, &ValidationError{Message: result.First()}
	}
	return in, nil
}

// sortRows orders active rows before inactive ones, each group by folded
// name, matching the original manage screens.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Active() != rows[j].Active() {
			return rows[i].Active()
		}
		return text.Fold(rows[i].Name) < text.Fold(rows[j].Name)
	})
}

// filterRows applies the search needle (folded substring on name and
// detail) and the status filter.
func filterRows(rows []Row, search, status string) []Row {
	needle := text.Fold(strings.TrimSpace(search))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if status != "" && row.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(text.Fold(row.Name), needle) &&
			!strings.Contains(text.Fold(row.Detail), needle) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Handler serves all four roster kinds.
type Handler struct {
	upstream    *upstream.Client
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a roster Handler. auditLogger may be nil.
func NewHandler(up *upstream.Client, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{upstream: up, auditLogger: auditLogger, errLog: errLog, logger: logger}
}
