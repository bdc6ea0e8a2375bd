// internal/app/features/home/home.go
package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"

	"github.com/movehq/moveboard/internal/app/system/viewdata"
)

// Handler renders the landing page.
type Handler struct{}

// NewHandler creates a new home Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Section is one group of navigation cards on the landing page.
type Section struct {
	Label string
	Links []Link
}

// Link is one navigation card.
type Link struct {
	Label string
	Href  string
}

// HomeVM is the view model for the landing page.
type HomeVM struct {
	viewdata.BaseVM
	Sections []Section
}

// Routes returns a chi.Router with home routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	return r
}

// Index renders the landing page: the register, manage, and report hubs
// the rest of the console hangs off.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	vm := HomeVM{BaseVM: viewdata.New(r)}
	vm.Title = "Início"
	vm.Sections = []Section{
		{
			Label: "Cadastro",
			Links: []Link{
				{"Funcionário", "/employees/new"},
				{"Autônomo", "/freelancers/new"},
				{"Equipe", "/teams/new"},
				{"Veículo", "/vehicles/new"},
				{"Pedido", "/requests/new"},
			},
		},
		{
			Label: "Gerenciar",
			Links: []Link{
				{"Funcionários", "/employees"},
				{"Autônomos", "/freelancers"},
				{"Equipes", "/teams"},
				{"Veículos", "/vehicles"},
				{"Pedidos", "/requests"},
			},
		},
		{
			Label: "Relatórios",
			Links: []Link{
				{"Premiações", "/awards"},
				{"Pagamentos", "/payments"},
				{"Resumo de horas", "/hours/summary"},
			},
		},
		{
			Label: "Lançamento de horas",
			Links: []Link{
				{"Horas de funcionário", "/hours/employees"},
				{"Horas de autônomo", "/hours/freelancers"},
			},
		},
	}

	templates.Render(w, r, "home/index", vm)
}
