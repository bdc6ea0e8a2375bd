// internal/app/features/awards/templates.go
package awards

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "awards",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
