package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	todosCollection = "todos"

	connectTimeout = 5 * time.Second
)

// DB wraps the Mongo client and the application database. A single handle is
// opened at startup and shared across all requests; the driver manages its
// own connection pool underneath.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func New(ctx context.Context, uri, dbName string) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		client:   client,
		database: client.Database(dbName),
	}, nil
}

// Ping verifies the server is still reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index so a concurrent double-signup
// fails atomically at insert time instead of racing the pre-insert lookup.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (db *DB) Users() *mongo.Collection {
	return db.database.Collection(usersCollection)
}

func (db *DB) Todos() *mongo.Collection {
	return db.database.Collection(todosCollection)
}
