package config

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

// ConnectMongo dials MongoDB, verifies it with a ping and stores the client
// on cfg. Heartbeats keep health up to date afterwards.
func ConnectMongo(ctx context.Context, cfg *Config, health *store.MongoHealth) error {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName(cfg.AppName).
		SetTimeout(cfg.MongoTimeout).
		SetServerMonitor(health.Monitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongodb: %w", err)
	}
	health.MarkConnected()

	cfg.MongoClient = client
	return nil
}

// Database returns the configured database handle.
func (c *Config) Database() *mongo.Database {
	return c.MongoClient.Database(c.DBName)
}
