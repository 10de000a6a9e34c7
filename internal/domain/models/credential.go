// internal/domain/models/credential.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Credential is an email/password credential record.
//
// This is the credential layer only: passing verification here does not make
// a user "authenticated" at the application layer. The session middleware
// must still resolve the email to a User profile record.
type Credential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // unique, normalized lowercase
	PasswordHash []byte             `bson:"password_hash" json:"-"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
