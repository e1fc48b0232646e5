// Package repository provides MongoDB-backed persistence for catalog
// entities.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/foodkart/catalog-service/internal/config"
)

// NewMongoConnection establishes a new MongoDB client connection and
// verifies it with a ping.
func NewMongoConnection(cfg config.MongoConfig) (*mongo.Client, error) {
	connectionTimeout := cfg.Timeout
	if connectionTimeout == 0 {
		connectionTimeout = 10 * time.Second
	}

	mongoURI := cfg.URI
	if mongoURI == "" {
		if cfg.User != "" && cfg.Password != "" {
			mongoURI = fmt.Sprintf("mongodb://%s:%s@%s:%s", cfg.User, cfg.Password, cfg.Host, cfg.Port)
		} else {
			mongoURI = fmt.Sprintf("mongodb://%s:%s", cfg.Host, cfg.Port)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}
