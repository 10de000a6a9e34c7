// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET /logout.
//
// Sign-out always clears the local session, even when the session cookie
// fails to decode. There is no remote revocation step to wait on.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	h.SessionMgr.SignOut(w, r)

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
