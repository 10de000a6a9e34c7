// internal/app/features/contenttemplates/templates.go
package contenttemplates

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "contenttemplates",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
