package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"myhabits/model"
)

type fakeHabitsStore struct {
	habits    map[string]*model.Habit
	createErr error
	marked    []string
	deleted   []string
}

func newFakeHabitsStore() *fakeHabitsStore {
	return &fakeHabitsStore{habits: make(map[string]*model.Habit)}
}

func (s *fakeHabitsStore) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.habits[habit.HabitID] = habit
	return nil
}

func (s *fakeHabitsStore) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, habit := range s.habits {
		if habit.UserID == userID {
			out = append(out, habit)
		}
	}
	return out, nil
}

func (s *fakeHabitsStore) FindHabit(ctx context.Context, habitID string, userID string) (*model.Habit, error) {
	habit, ok := s.habits[habitID]
	if !ok || habit.UserID != userID {
		return nil, nil
	}
	return habit, nil
}

func (s *fakeHabitsStore) MarkCompleted(ctx context.Context, habitID string, userID string, date string) error {
	habit := s.habits[habitID]
	habit.CompletedDates = append(habit.CompletedDates, date)
	s.marked = append(s.marked, habitID+"@"+date)
	return nil
}

func (s *fakeHabitsStore) DeleteHabit(ctx context.Context, habitID string, userID string) error {
	delete(s.habits, habitID)
	s.deleted = append(s.deleted, habitID)
	return nil
}

type fakeCompletionsStore struct {
	recorded []*model.Completion
}

func (s *fakeCompletionsStore) RecordCompletion(ctx context.Context, completion *model.Completion) error {
	s.recorded = append(s.recorded, completion)
	return nil
}

func TestCreateHabit(t *testing.T) {
	store := newFakeHabitsStore()
	svc := NewHabitsService(store, &fakeCompletionsStore{})

	habit, err := svc.CreateHabit(context.Background(), "u1", "Morning run")
	if err != nil {
		t.Fatal(err)
	}
	if habit.HabitID == "" {
		t.Error("expected a generated habit ID")
	}
	if habit.CompletedDates == nil || len(habit.CompletedDates) != 0 {
		t.Errorf("expected empty completed dates, got %v", habit.CompletedDates)
	}
	if _, ok := store.habits[habit.HabitID]; !ok {
		t.Error("habit was not stored")
	}
}

func TestCreateHabitRejectsBadTitles(t *testing.T) {
	svc := NewHabitsService(newFakeHabitsStore(), &fakeCompletionsStore{})

	cases := []string{"", "   ", strings.Repeat("x", 101)}
	for _, title := range cases {
		if _, err := svc.CreateHabit(context.Background(), "u1", title); err == nil {
			t.Errorf("expected error for title %q", title)
		}
	}

	if _, err := svc.CreateHabit(context.Background(), "u1", strings.Repeat("x", 100)); err != nil {
		t.Errorf("100-character title should be accepted: %v", err)
	}
}

func TestCompleteHabitSameDayNoOp(t *testing.T) {
	store := newFakeHabitsStore()
	completions := &fakeCompletionsStore{}
	svc := NewHabitsService(store, completions)

	habit, err := svc.CreateHabit(context.Background(), "u1", "Read")
	if err != nil {
		t.Fatal(err)
	}

	when := time.Date(2025, time.March, 15, 9, 30, 0, 0, time.Local)
	already, err := svc.CompleteHabit(context.Background(), "u1", habit.HabitID, when)
	if err != nil {
		t.Fatal(err)
	}
	if already {
		t.Error("first completion reported as already done")
	}

	// Later the same day: no second mark, no second event.
	already, err = svc.CompleteHabit(context.Background(), "u1", habit.HabitID, when.Add(8*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !already {
		t.Error("second completion on the same day should report already done")
	}
	if len(store.marked) != 1 {
		t.Errorf("expected one mark, got %v", store.marked)
	}
	if len(completions.recorded) != 1 {
		t.Errorf("expected one completion event, got %d", len(completions.recorded))
	}

	// The next day counts again.
	already, err = svc.CompleteHabit(context.Background(), "u1", habit.HabitID, when.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if already {
		t.Error("next-day completion reported as already done")
	}
	if len(completions.recorded) != 2 {
		t.Errorf("expected two completion events, got %d", len(completions.recorded))
	}
}

func TestCompleteHabitRecordsEvent(t *testing.T) {
	store := newFakeHabitsStore()
	completions := &fakeCompletionsStore{}
	svc := NewHabitsService(store, completions)

	habit, err := svc.CreateHabit(context.Background(), "u1", "Stretch")
	if err != nil {
		t.Fatal(err)
	}

	when := time.Date(2025, time.March, 15, 22, 0, 0, 0, time.Local)
	if _, err := svc.CompleteHabit(context.Background(), "u1", habit.HabitID, when); err != nil {
		t.Fatal(err)
	}

	if len(completions.recorded) != 1 {
		t.Fatalf("expected one recorded completion, got %d", len(completions.recorded))
	}
	event := completions.recorded[0]
	if event.UserID != "u1" || event.HabitID != habit.HabitID {
		t.Errorf("completion event misattributed: %+v", event)
	}
	if !event.CreatedAt.Equal(when) {
		t.Errorf("expected event timestamp %v, got %v", when, event.CreatedAt)
	}
	if event.CompletionID == "" {
		t.Error("expected a generated completion ID")
	}
}

func TestCompleteHabitUnknownHabit(t *testing.T) {
	svc := NewHabitsService(newFakeHabitsStore(), &fakeCompletionsStore{})

	_, err := svc.CompleteHabit(context.Background(), "u1", "missing", time.Now())
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestDeleteHabitKeepsCompletions(t *testing.T) {
	store := newFakeHabitsStore()
	completions := &fakeCompletionsStore{}
	svc := NewHabitsService(store, completions)

	habit, err := svc.CreateHabit(context.Background(), "u1", "Meditate")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteHabit(context.Background(), "u1", habit.HabitID, time.Now()); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteHabit(context.Background(), "u1", habit.HabitID); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.habits[habit.HabitID]; ok {
		t.Error("habit still present after delete")
	}
	if len(completions.recorded) != 1 {
		t.Error("completion history should survive habit deletion")
	}
}

func TestListHabitsOldestFirst(t *testing.T) {
	store := newFakeHabitsStore()
	svc := NewHabitsService(store, &fakeCompletionsStore{})

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)
	store.habits["h2"] = &model.Habit{HabitID: "h2", UserID: "u1", Title: "b", CreatedAt: base.AddDate(0, 0, 2)}
	store.habits["h1"] = &model.Habit{HabitID: "h1", UserID: "u1", Title: "a", CreatedAt: base}
	store.habits["h3"] = &model.Habit{HabitID: "h3", UserID: "other", Title: "c", CreatedAt: base.AddDate(0, 0, 1)}

	habits, err := svc.ListHabits(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	if habits[0].HabitID != "h1" || habits[1].HabitID != "h2" {
		t.Errorf("habits not sorted oldest first: %s, %s", habits[0].HabitID, habits[1].HabitID)
	}
}
