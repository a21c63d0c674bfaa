// Package db manages the MongoDB connection, the two logical databases and their collections.
package db

import (
	"context" // For connection timeout/cancellation
	"fmt"     // Error formatting
	"time"    // Duration for timeouts

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"          // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options"  // MongoDB options
	"go.mongodb.org/mongo-driver/v2/mongo/readpref" // MongoDB read preference
)

// Namespaces names the databases and collections the API works against.
type Namespaces struct {
	RoomsDB            string // e.g. "RoomsDB"
	RoomsCollection    string // e.g. "roomCollection"
	UsersDB            string // e.g. "UserDatas"
	BookingsCollection string // e.g. "bookings"
}

// Client wraps mongo.Client and exposes collections.
type Client struct {
	// client is the underlying MongoDB connection (thread-safe, shared by every request)
	client *mongo.Client

	rooms    *mongo.Collection
	bookings *mongo.Collection

	// transactions controls whether WithTransaction opens a session transaction.
	// Multi-document transactions need a replica set or sharded cluster.
	transactions bool
}

// New connects to MongoDB, pings the deployment and returns a Client.
func New(ctx context.Context, mongoURI string, ns Namespaces, transactions bool) (*Client, error) {
	// SetConnectTimeout: fail fast if MongoDB is unreachable
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// If ping doesn't complete in 5 seconds, fail
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:       client,
		rooms:        client.Database(ns.RoomsDB).Collection(ns.RoomsCollection),
		bookings:     client.Database(ns.UsersDB).Collection(ns.BookingsCollection),
		transactions: transactions,
	}, nil
}

// RoomsCollection returns the rooms collection.
func (c *Client) RoomsCollection() *mongo.Collection {
	return c.rooms
}

// BookingsCollection returns the bookings collection. Every user's bookings
// share it and are told apart by ownerEmail.
func (c *Client) BookingsCollection() *mongo.Collection {
	return c.bookings
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// WithTransaction runs fn inside a multi-document transaction when transactions
// are enabled; otherwise fn runs directly against ctx and its writes are not atomic.
// The driver retries fn on transient transaction errors, so fn must be safe to rerun.
func (c *Client) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !c.transactions {
		return fn(ctx)
	}

	sess, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, fn(txCtx)
	})
	return err
}

// Transactional reports whether WithTransaction gives atomicity.
func (c *Client) Transactional() bool {
	return c.transactions
}

// CreateIndexes creates the indexes the stores rely on.
func (c *Client) CreateIndexes(ctx context.Context) error {
	// ===== ROOMS COLLECTION INDEXES =====
	// Rooms are addressed by title everywhere, so titles must be unique.
	roomIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "RoomTitle", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Used by: ListAvailable
			Keys: bson.D{{Key: "Availability", Value: 1}},
		},
	}
	if _, err := c.rooms.Indexes().CreateMany(ctx, roomIndexes); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}

	// ===== BOOKINGS COLLECTION INDEXES =====
	bookingIndexes := []mongo.IndexModel{
		{
			// Used by: ListByOwner
			Keys: bson.D{{Key: "ownerEmail", Value: 1}},
		},
		{
			// Used by: UpdateDates, and the owner+title filter on cancel
			Keys: bson.D{{Key: "ownerEmail", Value: 1}, {Key: "RoomTitle", Value: 1}},
		},
	}
	if _, err := c.bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	return nil
}
