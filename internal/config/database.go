package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type MongoDBConfig struct {
	URI      string
	Database string
}

func NewMongoDBConfig() (*MongoDBConfig, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	return &MongoDBConfig{URI: uri, Database: getEnv("MONGO_DB", "scholarsbox")}, nil
}

type MongoDBClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials and pings MongoDB. Callers own the returned client.
func Connect(ctx context.Context, config *MongoDBConfig) (*MongoDBClient, error) {
	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetServerSelectionTimeout(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return &MongoDBClient{Client: client, Database: client.Database(config.Database)}, nil
}

func NewMongoDBClient(lc fx.Lifecycle, config *MongoDBConfig, logger *zap.Logger) (*MongoDBClient, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := Connect(ctx, config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to MongoDB", zap.String("database", config.Database))

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			return EnsureIndexes(startCtx, c.Database, logger)
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info("Closing MongoDB connection ...")
			return c.Client.Disconnect(stopCtx)
		},
	})
	return c, c.Database, nil
}

// EnsureIndexes creates the unique email indexes the record store and the
// admin collection rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for _, name := range []string{"scholarships", "admins"} {
		if err := UniqueEmailIndex(ctx, db.Collection(name)); err != nil {
			return err
		}
		logger.Info("Unique index on email ensured", zap.String("collection", name))
	}
	return nil
}

func UniqueEmailIndex(ctx context.Context, collection *mongo.Collection) error {
	indexmodel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexmodel); err != nil {
		return fmt.Errorf("create unique email index on %s: %w", collection.Name(), err)
	}
	return nil
}
