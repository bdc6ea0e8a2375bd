// internal/app/features/hours/templates.go
package hours

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "hours",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
