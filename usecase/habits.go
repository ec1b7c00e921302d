package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"myhabits/model"
	"myhabits/utils"
)

type HabitsStore interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	FindHabit(ctx context.Context, habitID string, userID string) (*model.Habit, error)
	MarkCompleted(ctx context.Context, habitID string, userID string, date string) error
	DeleteHabit(ctx context.Context, habitID string, userID string) error
}

type CompletionsStore interface {
	RecordCompletion(ctx context.Context, completion *model.Completion) error
}

var ErrHabitNotFound = errors.New("habit not found")

type HabitsService struct {
	habits      HabitsStore
	completions CompletionsStore
}

func NewHabitsService(habits HabitsStore, completions CompletionsStore) *HabitsService {
	return &HabitsService{
		habits:      habits,
		completions: completions,
	}
}

// CreateHabit validates and stores a new habit for the user.
func (svc *HabitsService) CreateHabit(ctx context.Context, userID string, title string) (*model.Habit, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if !utils.ValidateHabitTitle(title) {
		return nil, errors.New("habit title is required and cannot exceed 100 characters")
	}

	now := time.Now()
	habit := &model.Habit{
		HabitID:        utils.NewID(),
		UserID:         userID,
		Title:          title,
		CompletedDates: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := svc.habits.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}

	utils.TrackHabitOperation("create")
	return habit, nil
}

// ListHabits returns the user's habits, oldest first.
func (svc *HabitsService) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits, err := svc.habits.GetUserHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

// CompleteHabit marks a habit done for the calendar day containing when.
// The second completion on the same day is a no-op: the embedded date set
// stays deduplicated and no extra completion event is recorded. Returns
// whether the habit had already been completed that day.
func (svc *HabitsService) CompleteHabit(ctx context.Context, userID string, habitID string, when time.Time) (bool, error) {
	habit, err := svc.habits.FindHabit(ctx, habitID, userID)
	if err != nil {
		return false, err
	}
	if habit == nil {
		return false, ErrHabitNotFound
	}

	date := DateKey(when)
	if habit.CompletedOn(date) {
		return true, nil
	}

	if err := svc.habits.MarkCompleted(ctx, habitID, userID, date); err != nil {
		return false, err
	}

	// The completion event is the immutable record of the action; the
	// embedded date on the habit mirrors it for the list view.
	completion := &model.Completion{
		CompletionID: utils.NewID(),
		UserID:       userID,
		HabitID:      habitID,
		CreatedAt:    when,
	}
	if err := svc.completions.RecordCompletion(ctx, completion); err != nil {
		return false, err
	}

	utils.TrackHabitOperation("complete")
	return false, nil
}

// DeleteHabit removes a habit. Completion events for it are kept; they are
// immutable history.
func (svc *HabitsService) DeleteHabit(ctx context.Context, userID string, habitID string) error {
	if err := svc.habits.DeleteHabit(ctx, habitID, userID); err != nil {
		return err
	}
	utils.TrackHabitOperation("delete")
	return nil
}
