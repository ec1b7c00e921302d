package model

import "time"

type Habit struct {
	HabitID        string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	Title          string    `bson:"title" json:"title" binding:"required"`
	CompletedDates []string  `bson:"completed_dates,omitempty" json:"completed_dates,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// CompletedOn reports whether the habit was marked done on the given
// YYYY-MM-DD date.
func (h *Habit) CompletedOn(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}
