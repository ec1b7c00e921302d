package handler

import (
	"myhabits/repository"
	"myhabits/services"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
)

type TwoFactorHandler struct {
	users *repository.UsersRepo
}

func NewTwoFactorHandler(users *repository.UsersRepo) *TwoFactorHandler {
	return &TwoFactorHandler{users: users}
}

// Enable generates a TOTP secret for the user. The secret is stored but
// not enforced until Verify confirms the user's authenticator works.
func (h *TwoFactorHandler) Enable(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		utils.InternalError(c, "failed to load user")
		return
	}
	if user.TwoFactorEnabled {
		utils.Conflict(c, "2FA is already enabled")
		return
	}

	key, err := services.GenerateTwoFactorSecret(user.Username)
	if err != nil {
		utils.TrackError("auth", "2fa_secret_generation")
		utils.InternalError(c, "failed to generate 2FA secret")
		return
	}

	if err := h.users.SetTwoFactor(c.Request.Context(), userID, key.Secret(), false); err != nil {
		utils.InternalError(c, "failed to store 2FA secret")
		return
	}

	utils.Success(c, gin.H{
		"secret":  key.Secret(),
		"qr_url":  key.URL(),
		"message": "scan the QR code, then verify a code to enable 2FA",
	})
}

// Verify checks a code against the pending secret and turns enforcement on.
func (h *TwoFactorHandler) Verify(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		utils.InternalError(c, "failed to load user")
		return
	}
	if user.TwoFactorSecret == "" {
		utils.BadRequest(c, "2FA has not been set up")
		return
	}

	if !services.ValidateTwoFactorCode(req.Code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "2fa_verify")
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := h.users.SetTwoFactor(c.Request.Context(), userID, user.TwoFactorSecret, true); err != nil {
		utils.InternalError(c, "failed to enable 2FA")
		return
	}

	utils.TrackAuthAttempt("success", "2fa_verify")
	utils.Success(c, gin.H{"message": "2FA enabled"})
}
