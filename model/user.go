package model

import "time"

type User struct {
	UserID           string    `bson:"user_id" json:"user_id"`
	Username         string    `bson:"username" json:"username" validate:"required,min=4,max=20"`
	Email            string    `bson:"email" json:"email" validate:"omitempty,email"`
	Password         string    `bson:"password" json:"-"` // argon2id hash
	IsGuest          bool      `bson:"is_guest,omitempty" json:"is_guest,omitempty"`
	TwoFactorSecret  string    `bson:"two_factor_secret,omitempty" json:"-"`
	TwoFactorEnabled bool      `bson:"two_factor_enabled,omitempty" json:"two_factor_enabled,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

type LoginRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"two_factor_code,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,password"`
}
