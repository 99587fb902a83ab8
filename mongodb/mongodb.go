package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type Options struct {
	URI      string
	Database string
}

// NewConnection opens the client and checks the deployment is reachable.
// Callers own the client and must Disconnect it on shutdown.
func NewConnection(ctx context.Context, opts Options) (*mongo.Database, error) {
	if strings.TrimSpace(opts.URI) == "" {
		return nil, errors.New("mongodb: uri is required")
	}
	if strings.TrimSpace(opts.Database) == "" {
		return nil, errors.New("mongodb: database is required")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client.Database(opts.Database), nil
}

// Close disconnects the client behind db.
func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}
