package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"myhabits/model"
	"myhabits/usecase"

	"github.com/gin-gonic/gin"
)

type stubHabitsReader struct {
	habits []*model.Habit
	err    error
}

func (r *stubHabitsReader) GetHabitsForUsers(ctx context.Context, userIDs []string) ([]*model.Habit, error) {
	return r.habits, r.err
}

type stubCompletionsReader struct {
	events []*model.Completion
	err    error
}

func (r *stubCompletionsReader) GetCompletionsForUsers(ctx context.Context, userIDs []string) ([]*model.Completion, error) {
	return r.events, r.err
}

func newReportRouter(habits *stubHabitsReader, completions *stubCompletionsReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := usecase.NewReportService(habits, completions)
	refresher := usecase.NewReportRefresher(service, nil)
	handler := NewReportHandler(refresher)

	router := gin.New()
	router.GET("/api/reports/weekly", func(c *gin.Context) {
		c.Set("user_id", "u1")
		handler.GetWeeklyReport(c)
	})
	return router
}

type reportEnvelope struct {
	Code  string `json:"code"`
	Error string `json:"error"`
	Data  struct {
		Series []model.DailyRate `json:"series"`
	} `json:"data"`
}

func doReportRequest(t *testing.T, router *gin.Engine, target string) (*httptest.ResponseRecorder, reportEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body reportEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestGetWeeklyReport(t *testing.T) {
	created := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.Local)
	habits := &stubHabitsReader{habits: []*model.Habit{
		{HabitID: "h1", UserID: "u1", Title: "Run", CreatedAt: created},
		{HabitID: "h2", UserID: "u1", Title: "Read", CreatedAt: created},
	}}
	completions := &stubCompletionsReader{events: []*model.Completion{
		{CompletionID: "c1", UserID: "u1", HabitID: "h1",
			CreatedAt: time.Date(2025, time.March, 15, 9, 0, 0, 0, time.Local)},
	}}
	router := newReportRouter(habits, completions)

	w, body := doReportRequest(t, router, "/api/reports/weekly?reference_date=2025-03-15")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	series := body.Data.Series
	if len(series) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series))
	}
	if series[0].Date != "2025-03-09" || series[6].Date != "2025-03-15" {
		t.Errorf("unexpected window: %s .. %s", series[0].Date, series[6].Date)
	}
	if series[6].CompletionRate != 50 {
		t.Errorf("expected 50%% on the reference day, got %d", series[6].CompletionRate)
	}
	for _, point := range series[:6] {
		if point.CompletionRate != 0 {
			t.Errorf("expected 0%% on %s, got %d", point.Date, point.CompletionRate)
		}
	}
}

func TestGetWeeklyReportDefaultsToCaller(t *testing.T) {
	habits := &stubHabitsReader{}
	completions := &stubCompletionsReader{}
	router := newReportRouter(habits, completions)

	w, body := doReportRequest(t, router, "/api/reports/weekly")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(body.Data.Series) != 7 {
		t.Errorf("expected 7 zeroed points, got %d", len(body.Data.Series))
	}
}

func TestGetWeeklyReportEmptyUserSet(t *testing.T) {
	router := newReportRouter(&stubHabitsReader{}, &stubCompletionsReader{})

	w, body := doReportRequest(t, router, "/api/reports/weekly?user_ids=")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if body.Code != "no_users_specified" {
		t.Errorf("expected code no_users_specified, got %q", body.Code)
	}
}

func TestGetWeeklyReportBadReferenceDate(t *testing.T) {
	router := newReportRouter(&stubHabitsReader{}, &stubCompletionsReader{})

	w, _ := doReportRequest(t, router, "/api/reports/weekly?reference_date=15-03-2025")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetWeeklyReportFetchFailure(t *testing.T) {
	habits := &stubHabitsReader{err: errors.New("primary unavailable")}
	router := newReportRouter(habits, &stubCompletionsReader{})

	w, body := doReportRequest(t, router, "/api/reports/weekly")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	if body.Error == "" {
		t.Error("expected an error message in the response")
	}
}
