// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the social content pages. Browsing is open to everyone
// signed in; writing requires the admin or editor role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "editor"))

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}", h.HandleUpdate)
		pr.Post("/{id}/schedule", h.HandleSchedule)
		pr.Post("/{id}/publish", h.HandlePublish)
		pr.Post("/{id}/archive", h.HandleArchive)
		pr.Post("/{id}/metrics", h.HandleMetrics)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
