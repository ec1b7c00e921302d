package model

import "time"

// Completion records that a habit was marked done. Completions are
// immutable: there is no update or delete path, one record is inserted per
// "mark complete" action.
type Completion struct {
	CompletionID string    `bson:"_id,omitempty" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	HabitID      string    `bson:"habit_id,omitempty" json:"habit_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
