package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/eion/userstore/internal/users"
)

// Config represents MongoDB connection configuration
type Config struct {
	URI            string        `json:"uri" yaml:"uri"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// Client owns a single *mongo.Client shared by every store of the process.
// It is safe for concurrent use.
type Client struct {
	client *mongo.Client
	uri    string
	logger *zap.Logger
}

// Connect creates the client and verifies the server is reachable. A server
// that cannot be selected within ConnectTimeout is a connection failure.
func Connect(ctx context.Context, config Config, logger *zap.Logger) (*Client, error) {
	if config.URI == "" {
		return nil, fmt.Errorf("MongoDB URI is required")
	}

	opts := options.Client().ApplyURI(config.URI)
	if config.ConnectTimeout > 0 {
		opts.SetServerSelectionTimeout(config.ConnectTimeout).
			SetConnectTimeout(config.ConnectTimeout)
	}

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.String("uri", config.URI), zap.Error(err))
		return nil, users.NewStorageConnectionError("connect", config.URI, err)
	}

	c := &Client{
		client: mc,
		uri:    config.URI,
		logger: logger,
	}

	if err := c.Ping(ctx); err != nil {
		logger.Error("Failed to connect to MongoDB", zap.String("uri", config.URI), zap.Error(err))
		_ = mc.Disconnect(context.Background())
		return nil, users.NewStorageConnectionError("ping", config.URI, err)
	}

	logger.Info("Connected to MongoDB", zap.String("uri", config.URI))
	return c, nil
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Collection returns a users.Collection bound to database and collection.
func (c *Client) Collection(database, collection string) *Collection {
	return NewCollection(c.client.Database(database).Collection(collection))
}

// Close disconnects from the server, waiting for in-flight operations until ctx is done.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	c.logger.Info("Disconnected from MongoDB", zap.String("uri", c.uri))
	return nil
}

// HealthCheck implements health.Checker.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

func (c *Client) IsCritical() bool {
	return true // nothing can be served without the database
}

func (c *Client) Name() string {
	return "mongodb"
}
