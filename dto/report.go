package dto

import (
	"time"

	"myhabits/model"
)

type WeeklyReportResponse struct {
	Series      []model.DailyRate `json:"series"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func ToWeeklyReportResponse(series []model.DailyRate) WeeklyReportResponse {
	return WeeklyReportResponse{
		Series:      series,
		GeneratedAt: time.Now(),
	}
}
