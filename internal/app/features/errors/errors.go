// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "You don't have permission to view this page.",
		BackURL:    "/",
	}

	templates.Render(w, r, "error_forbidden", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    "/login",
	}

	templates.Render(w, r, "error_forbidden", data)
}

// ProfileError renders the page shown when a signed-in identity has no
// member profile. This is a distinct state from being signed out: the
// credential is valid, but no profile record matched it.
// GET /profile-error
func (h *Handler) ProfileError(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:   "Profile not found",
		Message: "Your account signed in successfully, but no member profile exists for it. Ask a chapter admin to create your profile, then sign in again.",
		BackURL: "/logout",
	}

	templates.Render(w, r, "error_profile", data)
}
