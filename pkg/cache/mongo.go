package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for MongoOptions.
const (
	DefaultMongoDatabase   = "compgraph"
	DefaultMongoCollection = "cache"
)

// MongoOptions configures a MongoDB backend.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoCache stores one document per entry. Expiry is enforced on read and
// by a TTL index on expires_at, which MongoDB sweeps about once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	CreatedAt time.Time  `bson:"created_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB and ensures the TTL index exists.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	if opts.URI == "" {
		opts.URI = "mongodb://localhost:27017"
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	err = RetryWithBackoff(ctx, func() error {
		return mongoErr(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo: %v", ErrUnavailable, err)
	}

	c := &MongoCache{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		now:    time.Now,
	}
	_, err = c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return c, nil
}

// Get implements Cache.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", mongoErr(err))
	}
	if entry.ExpiresAt != nil && c.now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements Cache.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now().UTC()
	entry := mongoEntry{Key: key, Data: data, CreatedAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		entry.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", mongoErr(err))
	}
	return nil
}

// Delete implements Cache.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return fmt.Errorf("mongo delete: %w", mongoErr(err))
	}
	return nil
}

// Close implements Cache.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return Retryable(err)
	}
	return transient(err)
}

var _ Cache = (*MongoCache)(nil)
