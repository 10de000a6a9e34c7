// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"

	settingsstore "github.com/dalemusser/chapterhub/internal/app/store/settings"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/app/system/timeouts"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, db, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Chapter branding (from chapter settings)
	ChapterID      string
	PrimaryColor   string
	SecondaryColor string
	LogoURL        string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	CanEdit    bool // admin or editor

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// storageProvider is set by Init and used to generate logo URLs.
var storageProvider storage.Store

// Init sets the storage provider for generating logo URLs.
// Call this once at startup from bootstrap.
func Init(store storage.Store) {
	storageProvider = store
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - db: database for loading chapter branding (can be nil for defaults)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, db *mongo.Database, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		ChapterID:      authz.ChapterID(r),
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
		IsLoggedIn:     signedIn,
		Role:           role,
		UserName:       name,
		CanEdit:        authz.CanEditContent(r),
		Title:          title,
		BackURL:        backDefault,
		CurrentPath:    r.URL.Path,
		CSRFToken:      csrf.Token(r),
	}

	if db != nil && vm.ChapterID != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		settings, err := settingsstore.New(db).Get(ctx, vm.ChapterID)
		if err == nil {
			vm.PrimaryColor = settings.BrandColors.Primary
			vm.SecondaryColor = settings.BrandColors.Secondary
			if settings.HasLogo() && storageProvider != nil {
				vm.LogoURL = storageProvider.URL(settings.LogoPath)
			}
		}
	}

	return vm
}
