package repository

import (
	"context"
	"errors"

	"myhabits/config"
	"myhabits/model"
	"myhabits/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UsersRepo struct {
	MongoCollection *mongo.Collection
}

func NewUsersRepo(client *mongo.Client, cfg config.DatabaseConfig) *UsersRepo {
	return &UsersRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(cfg.UsersCollection),
	}
}

func (r *UsersRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.UserID == "" || user.Username == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("user ID and username are required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_username")
			return errors.New("username already exists")
		}
		utils.TrackError("database", "user_creation_failed")
		return err
	}

	utils.TrackAuthAttempt("success", "register")
	return nil
}

func (r *UsersRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.M{"user_id": userID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_failed")
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.M{"username": username}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_failed")
		return nil, err
	}
	return &user, nil
}

// SetTwoFactor stores the TOTP secret and toggles enforcement.
func (r *UsersRepo) SetTwoFactor(ctx context.Context, userID string, secret string, enabled bool) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": enabled,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "user_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return errors.New("user not found")
	}
	return nil
}
