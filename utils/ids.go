package utils

import "github.com/google/uuid"

// NewID returns a random identifier for habits, completions and sessions.
func NewID() string {
	return uuid.New().String()
}

// GenerateUserID returns a time-ordered identifier for new users.
func GenerateUserID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
