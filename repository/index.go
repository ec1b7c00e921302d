package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"myhabits/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(client *mongo.Client, cfg config.DatabaseConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := client.Database(cfg.DatabaseName)

	habitIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("user_habits_date"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_index"),
		},
	}

	completionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("user_completions_date"),
		},
		{
			Keys:    bson.D{{Key: "habit_id", Value: 1}},
			Options: options.Index().SetName("habit_id_index"),
		},
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().SetName("user_active_sessions"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("session_expiry").SetExpireAfterSeconds(0),
		},
	}

	collections := []struct {
		name    string
		indexes []mongo.IndexModel
	}{
		{cfg.HabitsCollection, habitIndexes},
		{cfg.CompletionsCollection, completionIndexes},
		{cfg.UsersCollection, userIndexes},
		{cfg.SessionsCollection, sessionIndexes},
	}

	for _, coll := range collections {
		if _, err := db.Collection(coll.name).Indexes().CreateMany(ctx, coll.indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll.name, err)
		}
	}

	log.Println("Successfully created all indexes")
	return nil
}
