// Command verifyuser reports where a member profile is stored.
//
// Usage:
//
//	verifyuser <email>
//
// Member profiles are dual-written to the "users" and "members"
// collections; this reports whether the email exists in both, one, or
// neither. Exit status is 1 when the profile is missing entirely, so
// the command works in scripts. Connection settings come from
// CHAPTERHUB_MONGO_URI and CHAPTERHUB_MONGO_DATABASE.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	memberstore "github.com/dalemusser/chapterhub/internal/app/store/members"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: verifyuser <email>")
		os.Exit(1)
	}
	email := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, disconnect, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer disconnect()

	inMembers, inUsers, err := memberstore.New(db).InCollections(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup: %v\n", err)
		os.Exit(1)
	}

	switch {
	case inMembers && inUsers:
		fmt.Printf("%s: present in both users and members\n", email)
	case inUsers:
		fmt.Printf("%s: present in users only\n", email)
	case inMembers:
		fmt.Printf("%s: present in members only\n", email)
	default:
		fmt.Printf("%s: not found\n", email)
		os.Exit(1)
	}
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
