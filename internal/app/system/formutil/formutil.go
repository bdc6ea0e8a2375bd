// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with
// the user's previously entered values echoed back, an error message explaining
// what went wrong, and the context data the form needs (dropdowns, etc.).
//
// Base can be embedded in form data structs to carry the common fields:
//
//	type newTeamData struct {
//		formutil.Base
//		Name string
//	}
//
//	data := newTeamData{
//		Base: formutil.NewBase(r, "Add Team", "/teams"),
//		Name: name,
//	}
//	data.SetError("Name is required.")
//	templates.Render(w, r, "team_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/movehq/moveboard/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
// It embeds viewdata.BaseVM for the page chrome and adds Error for form validation.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// NewBase creates a fully populated Base for a form page.
func NewBase(r *http.Request, title, backDefault string) Base {
	return Base{
		BaseVM: viewdata.NewBaseVM(r, title, backDefault),
	}
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
