package config

import (
	"context"
	"fmt"
	"time"

	"myhabits/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type DatabaseConfig struct {
	URI             string
	DatabaseName    string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool

	HabitsCollection      string
	CompletionsCollection string
	UsersCollection       string
	SessionsCollection    string
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "myhabits"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),

		HabitsCollection:      utils.GetEnvAsString("HABITS_COLLECTION", "habits"),
		CompletionsCollection: utils.GetEnvAsString("COMPLETIONS_COLLECTION", "completions"),
		UsersCollection:       utils.GetEnvAsString("USERS_COLLECTION", "users"),
		SessionsCollection:    utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions"),
	}
}

// NewMongoClient connects and pings the database. The client is constructed
// once here and passed by reference to the repositories; nothing else holds
// a database handle.
func NewMongoClient(ctx context.Context, cfg DatabaseConfig) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}
