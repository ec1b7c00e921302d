package handler

import (
	"errors"
	"strings"
	"time"

	"myhabits/dto"
	"myhabits/usecase"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	refresher *usecase.ReportRefresher
}

func NewReportHandler(refresher *usecase.ReportRefresher) *ReportHandler {
	return &ReportHandler{refresher: refresher}
}

// GetWeeklyReport returns the 7-day completion-rate series.
//
// Query parameters:
//   - user_ids: comma-separated user set; defaults to the caller. An
//     explicitly empty value is reported as a distinct "no users" state.
//   - habit_ids: optional comma-separated filter.
//   - reference_date: optional YYYY-MM-DD anchor; defaults to today.
func (h *ReportHandler) GetWeeklyReport(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	query := usecase.ReportQuery{UserIDs: []string{userID}}

	if raw, ok := c.GetQuery("user_ids"); ok {
		query.UserIDs = splitIDs(raw)
	}
	if raw, ok := c.GetQuery("habit_ids"); ok {
		query.HabitIDs = splitIDs(raw)
	}
	if raw, ok := c.GetQuery("reference_date"); ok {
		reference, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			utils.BadRequest(c, "reference_date must be YYYY-MM-DD")
			return
		}
		query.ReferenceDate = reference
	}

	series, err := h.refresher.Get(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, usecase.ErrNoUsersSpecified) {
			utils.BadRequestCode(c, "no_users_specified", "no users specified")
			return
		}
		var fetchErr *usecase.DataFetchError
		if errors.As(err, &fetchErr) {
			// The last served series stays valid; this invocation failed.
			utils.BadGateway(c, "unable to load completion data")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, dto.ToWeeklyReportResponse(series))
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
