// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders a friendly error page in
// one call. Handlers use it instead of writing bare status codes so users
// always land on a styled page with a way back.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal error and renders a 500 page.
// userMsg is shown to the user; logMsg and err go to the log only.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.renderPage(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs a client error and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.renderPage(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogForbidden logs a permission failure and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.log.Warn(logMsg, zap.String("path", r.URL.Path))
	e.renderPage(w, r, http.StatusForbidden, "Access denied", userMsg, backURL)
}

func (e *ErrorLogger) renderPage(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:   title,
		Message: userMsg,
		BackURL: backURL,
	})
}
