// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the calendar pages. Everyone signed in can browse events;
// creating, editing, and deleting require the admin or editor role.
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
		pr.Post("/{id}/status", h.HandleStatus)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
