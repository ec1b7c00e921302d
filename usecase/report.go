package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"myhabits/model"
	"myhabits/utils"

	"golang.org/x/sync/errgroup"
)

// ErrNoUsersSpecified is returned when a report is requested for an empty
// user set. No fetch is attempted; callers surface this as a distinct empty
// state, not as a zeroed series.
var ErrNoUsersSpecified = errors.New("no users specified")

// DataFetchError wraps a failed snapshot read. A failed refresh never
// overwrites a previously computed series.
type DataFetchError struct {
	Source string // "habits" or "completions"
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// CompletionSource selects how per-day completions are counted.
type CompletionSource int

const (
	// SourceEvents counts completion events whose timestamp falls within
	// the day.
	SourceEvents CompletionSource = iota
	// SourceEmbedded counts habits whose completed_dates contains the day.
	SourceEmbedded
)

type HabitsReader interface {
	GetHabitsForUsers(ctx context.Context, userIDs []string) ([]*model.Habit, error)
}

type CompletionsReader interface {
	GetCompletionsForUsers(ctx context.Context, userIDs []string) ([]*model.Completion, error)
}

// ReportQuery is the single configuration struct for a weekly report.
type ReportQuery struct {
	UserIDs       []string
	HabitIDs      []string  // optional; nil means every habit is in scope
	ReferenceDate time.Time // zero means now
}

// CacheKey identifies a query by value: the user set, the habit filter and
// the reference day. Set order is irrelevant.
func (q ReportQuery) CacheKey() string {
	users := append([]string(nil), q.UserIDs...)
	sort.Strings(users)
	habits := append([]string(nil), q.HabitIDs...)
	sort.Strings(habits)

	day := "today"
	if !q.ReferenceDate.IsZero() {
		day = DateKey(q.ReferenceDate)
	}
	return "report:" + strings.Join(users, ",") + ":" + strings.Join(habits, ",") + ":" + day
}

// ReportService computes the weekly completion-rate series from the two
// snapshot sources. It only ever reads; backend state is never mutated
// here.
type ReportService struct {
	habits      HabitsReader
	completions CompletionsReader
	source      CompletionSource
	clamp       bool
}

func NewReportService(habits HabitsReader, completions CompletionsReader) *ReportService {
	return &ReportService{
		habits:      habits,
		completions: completions,
		source:      SourceEvents,
		clamp:       true,
	}
}

// WithSource switches the per-day counting model.
func (svc *ReportService) WithSource(source CompletionSource) *ReportService {
	svc.source = source
	return svc
}

// WithClamping controls whether rates above 100% are capped. Rates can
// exceed 100 when completion events outnumber the habits that exist now.
func (svc *ReportService) WithClamping(clamp bool) *ReportService {
	svc.clamp = clamp
	return svc
}

// GetWeeklyCompletion produces the 7-point series for the query, oldest
// date first.
func (svc *ReportService) GetWeeklyCompletion(ctx context.Context, query ReportQuery) ([]model.DailyRate, error) {
	if len(query.UserIDs) == 0 {
		return nil, ErrNoUsersSpecified
	}

	timer := time.Now()
	defer func() {
		utils.ReportGenerationDuration.Observe(time.Since(timer).Seconds())
	}()

	reference := query.ReferenceDate
	if reference.IsZero() {
		reference = time.Now()
	}
	window := PastWeekDates(reference)

	var (
		habits []*model.Habit
		events []*model.Completion
	)

	// The two snapshot reads are independent; issue them together and join
	// before aggregating.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetched, err := svc.habits.GetHabitsForUsers(groupCtx, query.UserIDs)
		if err != nil {
			utils.TrackError("report", "habit_fetch_failed")
			return &DataFetchError{Source: "habits", Err: err}
		}
		habits = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := svc.completions.GetCompletionsForUsers(groupCtx, query.UserIDs)
		if err != nil {
			utils.TrackError("report", "completion_fetch_failed")
			return &DataFetchError{Source: "completions", Err: err}
		}
		events = fetched
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return ComputeWeeklyRates(habits, events, window, RateOptions{
		HabitIDs: query.HabitIDs,
		Source:   svc.source,
		Clamp:    svc.clamp,
	}), nil
}

// RateOptions parameterizes the pure aggregation core.
type RateOptions struct {
	HabitIDs []string
	Source   CompletionSource
	Clamp    bool
}

// ComputeWeeklyRates turns the two snapshots into the ordered series for
// the window. Pure: identical inputs always yield an identical series.
//
// The denominator is the count of habits that exist now, applied uniformly
// across the whole window, not the count that existed on each historical
// day.
func ComputeWeeklyRates(habits []*model.Habit, events []*model.Completion, window []time.Time, opts RateOptions) []model.DailyRate {
	var habitFilter map[string]bool
	if len(opts.HabitIDs) > 0 {
		habitFilter = make(map[string]bool, len(opts.HabitIDs))
		for _, id := range opts.HabitIDs {
			habitFilter[id] = true
		}
	}

	retained := habits
	if habitFilter != nil {
		retained = make([]*model.Habit, 0, len(habits))
		for _, habit := range habits {
			if habitFilter[habit.HabitID] {
				retained = append(retained, habit)
			}
		}
	}
	totalHabits := len(retained)

	series := make([]model.DailyRate, 0, len(window))
	for _, day := range window {
		var completed int
		switch opts.Source {
		case SourceEmbedded:
			key := DateKey(day)
			for _, habit := range retained {
				if habit.CompletedOn(key) {
					completed++
				}
			}
		default:
			start, end := DayBounds(day)
			for _, event := range events {
				if event.CreatedAt.IsZero() {
					// Timestamp was never normalized; skip the record.
					continue
				}
				if habitFilter != nil && !habitFilter[event.HabitID] {
					continue
				}
				if event.CreatedAt.Before(start) || event.CreatedAt.After(end) {
					continue
				}
				completed++
			}
		}

		series = append(series, model.DailyRate{
			Date:           DateKey(day),
			DisplayDate:    DisplayDate(day),
			CompletionRate: completionRate(completed, totalHabits, opts.Clamp),
		})
	}
	return series
}

func completionRate(completed, totalHabits int, clamp bool) int {
	if totalHabits == 0 {
		return 0
	}
	percent := int(math.Round(float64(completed) / float64(totalHabits) * 100))
	if clamp && percent > 100 {
		percent = 100
	}
	return percent
}
