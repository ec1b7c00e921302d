package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"myhabits/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestCollection connects to the database named by MONGO_TEST_URI and
// hands back an isolated collection. Tests that need a live database skip
// when the variable is unset.
func setupTestCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping live database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal("failed to connect:", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatal("failed to ping:", err)
	}

	coll := client.Database("myhabits_test").Collection(name)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		coll.Drop(ctx)
		client.Disconnect(ctx)
	})
	return coll
}

func TestHabitsRepoOperations(t *testing.T) {
	repo := HabitsRepo{MongoCollection: setupTestCollection(t, "habits")}

	userID := uuid.New().String()
	otherUserID := uuid.New().String()
	habitID1 := uuid.New().String()
	habitID2 := uuid.New().String()

	t.Run("CreateHabits", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, habit := range []*model.Habit{
			{HabitID: habitID1, UserID: userID, Title: "Run",
				CompletedDates: []string{}, CreatedAt: time.Now(), UpdatedAt: time.Now()},
			{HabitID: habitID2, UserID: userID, Title: "Read",
				CompletedDates: []string{}, CreatedAt: time.Now(), UpdatedAt: time.Now()},
			{HabitID: uuid.New().String(), UserID: otherUserID, Title: "Swim",
				CompletedDates: []string{}, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		} {
			if err := repo.CreateHabit(ctx, habit); err != nil {
				t.Fatal("failed to create habit:", err)
			}
		}
	})

	t.Run("CreateHabitRequiresUser", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		habit := &model.Habit{HabitID: uuid.New().String(), Title: "Orphan"}
		if err := repo.CreateHabit(ctx, habit); err == nil {
			t.Fatal("expected error for missing user ID")
		}
	})

	t.Run("GetUserHabits", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		habits, err := repo.GetUserHabits(ctx, userID)
		if err != nil {
			t.Fatal("failed to fetch habits:", err)
		}
		if len(habits) != 2 {
			t.Fatalf("expected 2 habits, got %d", len(habits))
		}
	})

	t.Run("GetHabitsForUsers", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		habits, err := repo.GetHabitsForUsers(ctx, []string{userID, otherUserID})
		if err != nil {
			t.Fatal("failed to fetch habits:", err)
		}
		if len(habits) != 3 {
			t.Fatalf("expected 3 habits across both users, got %d", len(habits))
		}
	})

	t.Run("MarkCompletedIsIdempotent", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := repo.MarkCompleted(ctx, habitID1, userID, "2025-03-15"); err != nil {
			t.Fatal("failed to mark completed:", err)
		}
		if err := repo.MarkCompleted(ctx, habitID1, userID, "2025-03-15"); err != nil {
			t.Fatal("second mark failed:", err)
		}

		habit, err := repo.FindHabit(ctx, habitID1, userID)
		if err != nil {
			t.Fatal("failed to find habit:", err)
		}
		if habit == nil {
			t.Fatal("habit not found")
		}
		if len(habit.CompletedDates) != 1 || habit.CompletedDates[0] != "2025-03-15" {
			t.Fatalf("expected single completion date, got %v", habit.CompletedDates)
		}
	})

	t.Run("FindHabitScopedToOwner", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		habit, err := repo.FindHabit(ctx, habitID1, otherUserID)
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if habit != nil {
			t.Fatal("habit visible to a different user")
		}
	})

	t.Run("CountHabits", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := repo.CountHabits(ctx, userID)
		if err != nil {
			t.Fatal("failed to count habits:", err)
		}
		if count != 2 {
			t.Fatalf("expected 2 habits, got %d", count)
		}
	})

	t.Run("DeleteHabit", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := repo.DeleteHabit(ctx, habitID2, userID); err != nil {
			t.Fatal("failed to delete habit:", err)
		}
		if err := repo.DeleteHabit(ctx, habitID2, userID); err == nil {
			t.Fatal("expected error deleting a missing habit")
		}
	})
}

func TestCompletionsRepoOperations(t *testing.T) {
	repo := CompletionsRepo{MongoCollection: setupTestCollection(t, "completions")}

	userID := uuid.New().String()

	t.Run("RecordAndFetch", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		completion := &model.Completion{
			CompletionID: uuid.New().String(),
			UserID:       userID,
			HabitID:      uuid.New().String(),
			CreatedAt:    time.Now(),
		}
		if err := repo.RecordCompletion(ctx, completion); err != nil {
			t.Fatal("failed to record completion:", err)
		}

		completions, err := repo.GetCompletionsForUsers(ctx, []string{userID})
		if err != nil {
			t.Fatal("failed to fetch completions:", err)
		}
		if len(completions) != 1 {
			t.Fatalf("expected 1 completion, got %d", len(completions))
		}
		if completions[0].UserID != userID {
			t.Fatalf("completion misattributed: %+v", completions[0])
		}
	})

	t.Run("SkipsLegacyGarbageTimestamps", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := repo.MongoCollection.InsertOne(ctx, map[string]interface{}{
			"_id":        uuid.New().String(),
			"user_id":    userID,
			"habit_id":   uuid.New().String(),
			"created_at": "not a timestamp",
		})
		if err != nil {
			t.Fatal("failed to seed legacy record:", err)
		}

		completions, err := repo.GetCompletionsForUsers(ctx, []string{userID})
		if err != nil {
			t.Fatal("fetch should not fail on malformed records:", err)
		}
		if len(completions) != 1 {
			t.Fatalf("expected malformed record to be skipped, got %d records", len(completions))
		}
	})
}
