// Command createuser creates a member profile and password credential.
//
// Usage:
//
//	createuser <email> <password> <displayName> <role> <chapterID>
//
// Role must be admin, editor, or viewer. The password must be at least
// 8 characters. Connection settings come from CHAPTERHUB_MONGO_URI and
// CHAPTERHUB_MONGO_DATABASE (defaulting to a local MongoDB).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	credstore "github.com/dalemusser/chapterhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"github.com/dalemusser/chapterhub/internal/app/system/authz"
	"github.com/dalemusser/chapterhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) != 6 {
		fmt.Fprintln(os.Stderr, "usage: createuser <email> <password> <displayName> <role> <chapterID>")
		os.Exit(1)
	}
	email, password, displayName, role, chapterID := os.Args[1], os.Args[2], os.Args[3], os.Args[4], os.Args[5]

	// Validate before touching the database.
	if !authz.IsValidRole(role) {
		fmt.Fprintf(os.Stderr, "invalid role %q: must be admin, editor, or viewer\n", role)
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, disconnect, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer disconnect()

	members := memberstore.New(db)
	creds := credstore.New(db)

	member, err := members.Create(ctx, models.User{
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		ChapterID:   chapterID,
		Status:      "active",
	})
	if err != nil {
		if errors.Is(err, memberstore.ErrDuplicateEmail) {
			fmt.Fprintf(os.Stderr, "a member with email %s already exists\n", email)
		} else {
			fmt.Fprintf(os.Stderr, "create member: %v\n", err)
		}
		os.Exit(1)
	}

	if _, err := creds.Create(ctx, member.Email, password, member.ID); err != nil {
		fmt.Fprintf(os.Stderr, "create credential: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created %s (%s) in chapter %s with role %s\n", member.Email, member.ID.Hex(), chapterID, role)
}

func connect(ctx context.Context) (*mongo.Database, func(), error) {
	uri := os.Getenv("CHAPTERHUB_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("CHAPTERHUB_MONGO_DATABASE")
	if dbName == "" {
		dbName = "chapterhub"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	disconnect := func() {
		_ = client.Disconnect(context.Background())
	}
	return client.Database(dbName), disconnect, nil
}
