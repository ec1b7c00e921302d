package repository

import (
	"context"
	"fmt"
	"time"

	"myhabits/config"
	"myhabits/model"
	"myhabits/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionsRepo struct {
	MongoCollection *mongo.Collection
}

func NewSessionsRepo(client *mongo.Client, cfg config.DatabaseConfig) *SessionsRepo {
	return &SessionsRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(cfg.SessionsCollection),
	}
}

func (r *SessionsRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("invalid session data: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionsRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		utils.TrackError("database", "session_count_failed")
		return 0, err
	}
	return int(count), nil
}

// EndLeastActiveSession deactivates the session with the oldest activity,
// used when a user exceeds the active session limit.
func (r *SessionsRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "is_active": true}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})
	update := bson.M{"$set": bson.M{"is_active": false}}

	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err != nil && err != mongo.ErrNoDocuments {
		utils.TrackError("database", "session_cleanup_failed")
		return err
	}
	return nil
}

// EndAllUserSessions deactivates every active session for the user.
func (r *SessionsRepo) EndAllUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		utils.TrackError("database", "session_logout_failed")
		return err
	}
	return nil
}
