// config/db.go
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/storefront_backend/logging"
)

// ConnectDB establishes the process-wide MongoDB client. The caller owns it and
// must Disconnect on shutdown.
func ConnectDB(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	logging.Info().Str("uri", maskMongoURI(cfg.URI)).Msg("connecting to MongoDB")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logging.Info().Str("database", cfg.Database).Msg("connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Index errors are
// logged and skipped so a single conflicting index does not block startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "cart.productId", Value: 1}}},
		},
		"accounts": {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "subcategory", Value: 1}}},
			{Keys: bson.D{{Key: "isFeatured", Value: 1}, {Key: "isWeeklyDeal", Value: 1}}},
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		},
		"categories": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}}},
		},
		"orders": {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "type", Value: 1}}},
		},
		"logs": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "level", Value: 1}, {Key: "category", Value: 1}}},
		},
		"blogs": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"support_tickets": {
			{Keys: bson.D{{Key: "ticketNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			logging.Warn().Err(err).Str("collection", coll).Msg("error creating indexes")
		}
	}

	logging.Info().Msg("database indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	hostStart := strings.Index(uri, "://") + 3
	idx := strings.LastIndex(uri, "@")
	if idx < hostStart {
		return uri
	}
	if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx >= hostStart {
		return uri[:colonIdx+1] + "***" + uri[idx:]
	}
	return uri
}
