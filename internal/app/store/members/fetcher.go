// internal/app/store/members/fetcher.go
package memberstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/chapterhub/internal/app/system/auth"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// URLResolver turns a stored object path into a servable URL.
// *storage.Local and the S3 backend both satisfy it.
type URLResolver interface {
	URL(path string) string
}

// Fetcher resolves session identities to member profiles. It implements
// auth.ProfileFetcher: a valid session whose profile record is missing or
// disabled yields auth.ErrProfileNotFound so the caller can distinguish
// "signed in with no profile" from "signed out".
type Fetcher struct {
	store *Store
	urls  URLResolver
}

// NewFetcher creates a profile fetcher. urls may be nil; photo URLs are
// then omitted from the session user.
func NewFetcher(store *Store, urls URLResolver) *Fetcher {
	return &Fetcher{store: store, urls: urls}
}

// FetchProfile loads the profile for an authenticated identity. The lookup
// is by id first, then by email for records created before the session.
func (f *Fetcher) FetchProfile(ctx context.Context, userID, email string) (*auth.SessionUser, error) {
	var u *models.User

	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		m, err := f.store.GetByID(ctx, oid)
		if err != nil {
			return nil, fmt.Errorf("fetch profile by id: %w", err)
		}
		u = m
	}
	if u == nil && email != "" {
		m, err := f.store.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("fetch profile by email: %w", err)
		}
		u = m
	}

	if u == nil {
		return nil, fmt.Errorf("%s: %w", email, auth.ErrProfileNotFound)
	}
	if u.Status == "disabled" {
		return nil, fmt.Errorf("profile disabled: %w", auth.ErrProfileNotFound)
	}

	su := &auth.SessionUser{
		ID:        u.ID.Hex(),
		Name:      u.DisplayName,
		Email:     u.Email,
		Role:      u.Role,
		ChapterID: u.ChapterID,
	}
	if f.urls != nil && u.HasPhoto() {
		su.PhotoURL = f.urls.URL(u.PhotoPath)
	}
	return su, nil
}
