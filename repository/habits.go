package repository

import (
	"context"
	"errors"
	"time"

	"myhabits/config"
	"myhabits/model"
	"myhabits/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type HabitsRepo struct {
	MongoCollection *mongo.Collection
}

func NewHabitsRepo(client *mongo.Client, cfg config.DatabaseConfig) *HabitsRepo {
	return &HabitsRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(cfg.HabitsCollection),
	}
}

// CreateHabit inserts a new habit into the database
func (r *HabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if habit.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, habit)
	if err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return err
	}

	return nil
}

// GetUserHabits retrieves all habits owned by a single user
func (r *HabitsRepo) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habits []*model.Habit
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}
	return habits, nil
}

// GetHabitsForUsers retrieves a snapshot of all habits owned by any of the
// given users, for report aggregation
func (r *HabitsRepo) GetHabitsForUsers(ctx context.Context, userIDs []string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habits []*model.Habit
	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}
	return habits, nil
}

// FindHabit looks up a single habit scoped to its owner
func (r *HabitsRepo) FindHabit(ctx context.Context, habitID string, userID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	var habit model.Habit
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&habit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "habit_lookup_failed")
		return nil, err
	}
	return &habit, nil
}

// MarkCompleted appends a completion date to a habit. $addToSet keeps the
// operation idempotent for the same calendar day.
func (r *HabitsRepo) MarkCompleted(ctx context.Context, habitID string, userID string, date string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	update := bson.M{
		"$addToSet": bson.M{"completed_dates": date},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}

	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}

	return nil
}

// DeleteHabit removes a habit from the database
func (r *HabitsRepo) DeleteHabit(ctx context.Context, habitID string, userID string) error {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return err
	}

	if result.DeletedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return errors.New("habit not found")
	}

	return nil
}

// CountHabits returns the number of habits a user currently has
func (r *HabitsRepo) CountHabits(ctx context.Context, userID string) (int, error) {
	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
