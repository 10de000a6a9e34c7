// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the analytics pages. Read-only, so any signed-in member
// can see them.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeAnalytics)
		pr.Get("/export", h.ServeExport)
	})

	return r
}
