package handler

import (
	"errors"
	"time"

	"myhabits/dto"
	"myhabits/usecase"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
)

type HabitsHandler struct {
	service   *usecase.HabitsService
	refresher *usecase.ReportRefresher
}

func NewHabitsHandler(service *usecase.HabitsService, refresher *usecase.ReportRefresher) *HabitsHandler {
	return &HabitsHandler{
		service:   service,
		refresher: refresher,
	}
}

func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	habit, err := h.service.CreateHabit(c.Request.Context(), userID, req.Title)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	h.pulseAndRefresh(c, userID)
	utils.Created(c, dto.ToHabitResponse(habit, usecase.DateKey(time.Now())))
}

func (h *HabitsHandler) ListHabits(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habits, err := h.service.ListHabits(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToHabitResponses(habits, usecase.DateKey(time.Now())))
}

// CompleteHabit marks the habit done for today. Completing the same habit
// twice on one day is a no-op rather than an error.
func (h *HabitsHandler) CompleteHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	if habitID == "" {
		utils.BadRequest(c, "Missing habit ID")
		return
	}

	already, err := h.service.CompleteHabit(c.Request.Context(), userID, habitID, time.Now())
	if err != nil {
		if errors.Is(err, usecase.ErrHabitNotFound) {
			utils.NotFound(c, "habit not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	if !already {
		h.pulseAndRefresh(c, userID)
	}
	utils.Success(c, gin.H{"completed_today": true, "already_completed": already})
}

func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habitID := c.Param("id")
	if habitID == "" {
		utils.BadRequest(c, "Missing habit ID")
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), userID, habitID); err != nil {
		if err.Error() == "habit not found" {
			utils.NotFound(c, "habit not found")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	h.pulseAndRefresh(c, userID)
	utils.Success(c, gin.H{"message": "habit deleted"})
}

// pulseAndRefresh invalidates cached series for the user and kicks off a
// background recompute of their default weekly report.
func (h *HabitsHandler) pulseAndRefresh(c *gin.Context, userID string) {
	h.refresher.Pulse(c.Request.Context(), userID)
	h.refresher.Trigger(usecase.ReportQuery{UserIDs: []string{userID}})
}
