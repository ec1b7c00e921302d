package handler

import (
	"fmt"
	"time"

	"myhabits/dto"
	"myhabits/model"
	"myhabits/repository"
	"myhabits/services"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
)

const (
	MaxActiveSessions = 5
	sessionDuration   = 24 * time.Hour
)

type AuthHandler struct {
	users    *repository.UsersRepo
	sessions *repository.SessionsRepo
	tokens   *services.TokenService
}

func NewAuthHandler(users *repository.UsersRepo, sessions *repository.SessionsRepo, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		UserID:    utils.GenerateUserID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if err := h.users.AddUser(c.Request.Context(), user); err != nil {
		if err.Error() == "username already exists" {
			utils.Conflict(c, "username already exists")
			return
		}
		utils.TrackError("auth", "registration_failed")
		utils.InternalError(c, "failed to register user")
		return
	}

	h.issueTokens(c, user, "")
}

// RegisterGuest creates an anonymous account with no password, the
// equivalent of the old client's anonymous sign-in. Guests get a generated
// username and a normal token pair.
func (h *AuthHandler) RegisterGuest(c *gin.Context) {
	userID := utils.GenerateUserID()
	user := &model.User{
		UserID:    userID,
		Username:  "guest-" + userID[:8],
		IsGuest:   true,
		CreatedAt: time.Now(),
	}

	if err := h.users.AddUser(c.Request.Context(), user); err != nil {
		utils.TrackError("auth", "guest_registration_failed")
		utils.InternalError(c, "failed to create guest account")
		return
	}

	utils.TrackAuthAttempt("success", "guest")
	h.issueTokens(c, user, "")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.users.FindUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		utils.TrackAuthAttempt("failure", "user_lookup")
		utils.InternalError(c, "failed to look up user")
		return
	}
	if user == nil || user.IsGuest {
		utils.TrackAuthAttempt("failure", "user_not_found")
		utils.Unauthorized(c, "Invalid username or password")
		return
	}

	ok, err := services.VerifyPassword(user.Password, req.Password)
	if err != nil || !ok {
		utils.TrackAuthAttempt("failure", "invalid_password")
		utils.Unauthorized(c, "Invalid username or password")
		return
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			utils.TrackAuthAttempt("pending", "2fa_required")
			utils.Success(c, gin.H{
				"requires_2fa": true,
				"message":      "2FA code required",
			})
			return
		}
		if !services.ValidateTwoFactorCode(req.TwoFactorCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "invalid_2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	h.issueTokens(c, user, c.Request.UserAgent())
}

// issueTokens creates a session record and responds with a token pair.
func (h *AuthHandler) issueTokens(c *gin.Context, user *model.User, userAgent string) {
	ctx := c.Request.Context()

	activeCount, err := h.sessions.CountActiveSessions(ctx, user.UserID)
	if err != nil {
		utils.TrackError("session", "count_check")
		utils.InternalError(c, "failed to check sessions")
		return
	}
	if activeCount >= MaxActiveSessions {
		if err := h.sessions.EndLeastActiveSession(ctx, user.UserID); err != nil {
			utils.TrackError("session", "session_cleanup")
			utils.InternalError(c, "failed to manage sessions")
			return
		}
	}

	now := time.Now()
	session := &model.Session{
		SessionID:      utils.NewID(),
		UserID:         user.UserID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(sessionDuration),
		LastActivityAt: now,
		DeviceInfo:     describeDevice(userAgent),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}
	if err := h.sessions.CreateSession(ctx, session); err != nil {
		utils.TrackError("session", "creation")
		utils.InternalError(c, "failed to create session")
		return
	}

	token, err := h.tokens.GenerateAccessToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "failed to generate token")
		return
	}
	refreshToken, err := h.tokens.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "failed to generate refresh token")
		return
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, gin.H{
		"token":   token,
		"refresh": refreshToken,
		"user":    dto.ToUserResponse(user),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	userID, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	token, err := h.tokens.GenerateAccessToken(userID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{"token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := h.sessions.EndAllUserSessions(c.Request.Context(), userID); err != nil {
		utils.InternalError(c, "failed to end sessions")
		return
	}

	utils.Success(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "failed to load profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "user not found")
		return
	}

	utils.Success(c, dto.ToUserResponse(user))
}

// describeDevice renders the User-Agent into the short form stored on the
// session, e.g. "Chrome 120 on macOS".
func describeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown device"
	}
	ua := useragent.Parse(userAgent)
	if ua.Name == "" {
		return "unknown device"
	}
	if ua.OS == "" {
		return ua.Name
	}
	return fmt.Sprintf("%s %s on %s", ua.Name, ua.Version, ua.OS)
}
