package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"myhabits/config"
	"myhabits/model"
	"myhabits/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
)

type CompletionsRepo struct {
	MongoCollection *mongo.Collection
}

func NewCompletionsRepo(client *mongo.Client, cfg config.DatabaseConfig) *CompletionsRepo {
	return &CompletionsRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(cfg.CompletionsCollection),
	}
}

// completionDoc mirrors model.Completion with the timestamp left raw.
// Live records store a BSON datetime, but records migrated from the old
// client can carry string timestamps instead.
type completionDoc struct {
	CompletionID string        `bson:"_id,omitempty"`
	UserID       string        `bson:"user_id"`
	HabitID      string        `bson:"habit_id,omitempty"`
	CreatedAt    bson.RawValue `bson:"created_at"`
}

// RecordCompletion inserts a completion event. Events are insert-only;
// there is deliberately no update or delete method on this repo.
func (r *CompletionsRepo) RecordCompletion(ctx context.Context, completion *model.Completion) error {
	timer := utils.TrackDBOperation("insert", "completions")
	defer timer.ObserveDuration()

	if completion.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}
	if completion.CreatedAt.IsZero() {
		completion.CreatedAt = time.Now()
	}

	_, err := r.MongoCollection.InsertOne(ctx, completion)
	if err != nil {
		utils.TrackError("database", "completion_insert_failed")
		return err
	}

	return nil
}

// GetCompletionsForUsers retrieves a snapshot of all completion events for
// the given users. Records whose timestamp cannot be normalized are skipped
// rather than failing the whole read.
func (r *CompletionsRepo) GetCompletionsForUsers(ctx context.Context, userIDs []string) ([]*model.Completion, error) {
	timer := utils.TrackDBOperation("find", "completions")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		utils.TrackError("database", "completion_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var completions []*model.Completion
	for cursor.Next(ctx) {
		var doc completionDoc
		if err := cursor.Decode(&doc); err != nil {
			utils.TrackError("database", "completion_decode_failed")
			return nil, err
		}

		createdAt, err := NormalizeCompletionTime(doc.CreatedAt)
		if err != nil {
			utils.TrackError("database", "malformed_completion_timestamp")
			log.Printf("Skipping completion %s: %v", doc.CompletionID, err)
			continue
		}

		completions = append(completions, &model.Completion{
			CompletionID: doc.CompletionID,
			UserID:       doc.UserID,
			HabitID:      doc.HabitID,
			CreatedAt:    createdAt,
		})
	}
	if err := cursor.Err(); err != nil {
		utils.TrackError("database", "completion_fetch_failed")
		return nil, err
	}

	return completions, nil
}

// completionTimeLayouts are accepted for legacy string timestamps.
var completionTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// NormalizeCompletionTime converts a stored completion timestamp into a
// calendar instant. Plain YYYY-MM-DD strings resolve to local midnight of
// that day.
func NormalizeCompletionTime(raw bson.RawValue) (time.Time, error) {
	switch raw.Type {
	case bsontype.DateTime:
		return raw.Time(), nil
	case bsontype.String:
		value := raw.StringValue()
		for _, layout := range completionTimeLayouts {
			if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable completion timestamp %q", value)
	default:
		return time.Time{}, fmt.Errorf("unsupported completion timestamp type %s", raw.Type)
	}
}
