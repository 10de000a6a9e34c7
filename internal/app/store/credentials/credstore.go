// internal/app/store/credentials/credstore.go
package credstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/chapterhub/internal/app/system/normalize"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when a credential already exists for the email.
	ErrDuplicateEmail = errors.New("a credential with this email already exists")
	// ErrInvalidCredentials is returned for a wrong password or unknown email.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	errShortPassword = errors.New("password must be at least 8 characters")
)

const minPasswordLen = 8

// Store provides access to email/password credential records.
//
// Credentials are the first of two sign-in gates: verifying a password here
// proves identity only. The session layer still has to resolve the email to
// a profile record, and a missing profile is its own explicit state.
type Store struct {
	c *mongo.Collection
}

// New creates a credential store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

// Create hashes the password with bcrypt and inserts a credential record.
func (s *Store) Create(ctx context.Context, email, password string, userID primitive.ObjectID) (models.Credential, error) {
	email = normalize.Email(email)
	if len(password) < minPasswordLen {
		return models.Credential{}, errShortPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Credential{}, err
	}

	now := time.Now().UTC()
	cred := models.Credential{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Credential{}, ErrDuplicateEmail
		}
		return models.Credential{}, err
	}
	return cred, nil
}

// Verify checks an email/password pair and returns the credential on
// success. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *Store) Verify(ctx context.Context, email, password string) (*models.Credential, error) {
	var cred models.Credential
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		// Burn a hash comparison so timing does not reveal whether the
		// email exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &cred, nil
}

// GetByEmail looks up a credential by email. Returns (nil, nil) when not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// UpdatePassword replaces the stored hash for an email.
func (s *Store) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return errShortPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidCredentials
	}
	return nil
}

// Delete removes the credential for an email. Missing records are not an error.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	return err
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize
// Verify timing for unknown emails.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("chapterhub-timing-pad"), bcrypt.DefaultCost)
	return h
}()
