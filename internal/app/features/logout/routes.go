// internal/app/features/logout/routes.go
package logout

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	// Logout is reachable signed-in or not; clearing an absent session is
	// harmless and keeps the two-gate states easy to escape.
	r.Get("/", h.ServeLogout)
	return r
}
