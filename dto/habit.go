package dto

import (
	"time"

	"myhabits/model"
)

type HabitResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	CompletedToday bool      `json:"completed_today"`
	CompletedDates []string  `json:"completed_dates,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToHabitResponse renders a habit for the list view. today is the
// YYYY-MM-DD form of the current date in the caller's location.
func ToHabitResponse(habit *model.Habit, today string) HabitResponse {
	return HabitResponse{
		ID:             habit.HabitID,
		Title:          habit.Title,
		CompletedToday: habit.CompletedOn(today),
		CompletedDates: habit.CompletedDates,
		CreatedAt:      habit.CreatedAt,
	}
}

func ToHabitResponses(habits []*model.Habit, today string) []HabitResponse {
	responses := make([]HabitResponse, 0, len(habits))
	for _, habit := range habits {
		responses = append(responses, ToHabitResponse(habit, today))
	}
	return responses
}
