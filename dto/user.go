package dto

import (
	"time"

	"myhabits/model"
)

type UserResponse struct {
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	Email            string    `json:"email,omitempty"`
	IsGuest          bool      `json:"is_guest,omitempty"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:           user.UserID,
		Username:         user.Username,
		Email:            user.Email,
		IsGuest:          user.IsGuest,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt,
	}
}
