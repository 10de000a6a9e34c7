// internal/app/features/generate/routes.go
package generate

import (
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the content generation pages. Generation produces posts,
// so everything here requires the admin or editor role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "editor"))

		pr.Get("/", h.ServeForm)
		pr.Post("/", h.HandleGenerate)
		pr.Post("/save", h.HandleSave)
	})

	return r
}
