package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default timeout for connect and disconnect
const defaultTimeout = 10 * time.Second

// Ping gets its own, shorter budget
const pingTimeout = 5 * time.Second

// ConnectDB dials MongoDB at uri and pings the primary before returning.
// Callers pick the database with client.Database(name) and hand the
// *mongo.Database to the repository constructors.
func ConnectDB(uri string) (*mongo.Client, error) {
	// Bound the whole connection attempt
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// mongo.Connect is lazy and can succeed against an unreachable server,
	// so verify with a ping on a fresh context.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Release the pool before reporting the ping failure
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx) // the ping error is the one worth returning
		return nil, err
	}

	return client, nil
}

// DisconnectDB closes the client's connection pool, waiting at most defaultTimeout.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are joined
// so one bad collection does not hide the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for name, ensure := range map[string]func(context.Context, *mongo.Collection) error{
		userCollectionName:   EnsureUserIndexes,   // unique email
		dailyCollectionName:  EnsureDailyIndexes,  // unique (userId, date)
		pantryCollectionName: EnsurePantryIndexes, // unique (userId, code)
		postCollectionName:   EnsurePostIndexes,   // author feed ordering
	} {
		// Index builds are idempotent, so this is safe on every startup
		if err := ensure(ctx, db.Collection(name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
