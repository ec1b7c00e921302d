package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"myhabits/model"
)

// refreshTimeout bounds a background recompute.
const refreshTimeout = 30 * time.Second

// WeeklyReporter is what the refresher needs from the report service.
type WeeklyReporter interface {
	GetWeeklyCompletion(ctx context.Context, query ReportQuery) ([]model.DailyRate, error)
}

// ReportCache is the optional external cache collaborator. It lives
// entirely outside the aggregation engine; the engine itself stays a pure
// function of its two snapshots.
type ReportCache interface {
	Read(ctx context.Context, key string) ([]model.DailyRate, bool)
	Write(ctx context.Context, key string, userIDs []string, series []model.DailyRate)
	Invalidate(ctx context.Context, userID string)
}

// ReportRefresher recomputes the weekly series when habit state changes and
// keeps the last successfully computed series per query. Overlapping
// recomputes are resolved by generation: only the most recently issued one
// may install its result, so a slow stale fetch never overwrites a newer
// series.
type ReportRefresher struct {
	service WeeklyReporter
	cache   ReportCache // nil disables caching

	mu         sync.Mutex
	generation map[string]uint64
	latest     map[string][]model.DailyRate
}

func NewReportRefresher(service WeeklyReporter, cache ReportCache) *ReportRefresher {
	return &ReportRefresher{
		service:    service,
		cache:      cache,
		generation: make(map[string]uint64),
		latest:     make(map[string][]model.DailyRate),
	}
}

// Get returns the series for the query, preferring the cache and falling
// back to a fresh computation. On fetch failure the previously installed
// series is left untouched and the error is returned to the caller.
func (r *ReportRefresher) Get(ctx context.Context, query ReportQuery) ([]model.DailyRate, error) {
	key := query.CacheKey()
	if r.cache != nil {
		if series, ok := r.cache.Read(ctx, key); ok {
			return series, nil
		}
	}

	gen := r.nextGeneration(key)
	series, err := r.service.GetWeeklyCompletion(ctx, query)
	if err != nil {
		return nil, err
	}

	if r.install(key, gen, series) && r.cache != nil {
		r.cache.Write(ctx, key, query.UserIDs, series)
	}
	return series, nil
}

// Last returns the most recently installed series for the query, if any.
func (r *ReportRefresher) Last(query ReportQuery) ([]model.DailyRate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	series, ok := r.latest[query.CacheKey()]
	return series, ok
}

// Trigger recomputes the series in the background, typically after a
// completion or deletion elsewhere. The returned channel closes when the
// recompute has finished (installed or discarded).
func (r *ReportRefresher) Trigger(query ReportQuery) <-chan struct{} {
	key := query.CacheKey()
	gen := r.nextGeneration(key)

	done := make(chan struct{})
	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		series, err := r.service.GetWeeklyCompletion(ctx, query)
		if err != nil {
			// Keep whatever series was installed before.
			log.Printf("Report refresh failed: %v", err)
			return
		}
		if r.install(key, gen, series) && r.cache != nil {
			r.cache.Write(ctx, key, query.UserIDs, series)
		}
	}()
	return done
}

// Pulse drops cached series for the user after a mutation so the next read
// recomputes.
func (r *ReportRefresher) Pulse(ctx context.Context, userID string) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, userID)
	}
}

func (r *ReportRefresher) nextGeneration(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation[key]++
	return r.generation[key]
}

// install publishes a computed series unless a newer recompute for the same
// key was issued while this one was in flight.
func (r *ReportRefresher) install(key string, gen uint64, series []model.DailyRate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation[key] {
		return false
	}
	r.latest[key] = series
	return true
}
