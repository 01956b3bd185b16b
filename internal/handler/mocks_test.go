package handler

import (
	"context"
	"sync"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// mockTracker records every event it receives.
type mockTracker struct {
	mu      sync.Mutex
	events  []model.TrackEvent
	trackFn func(ctx context.Context, ev model.TrackEvent) error
}

func (m *mockTracker) Track(ctx context.Context, ev model.TrackEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	if m.trackFn != nil {
		return m.trackFn(ctx, ev)
	}
	return nil
}

func (m *mockTracker) received() []model.TrackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.TrackEvent(nil), m.events...)
}

// inlineDispatcher runs tasks synchronously so tests can observe their effects.
type inlineDispatcher struct {
	names  []string
	taskFn func(err error)
	goErr  error
}

func (d *inlineDispatcher) Go(taskName string, fn func(ctx context.Context) error) error {
	if d.goErr != nil {
		return d.goErr
	}
	d.names = append(d.names, taskName)
	err := fn(context.Background())
	if d.taskFn != nil {
		d.taskFn(err)
	}
	return nil
}

// mockDashboardService is a mock implementation of DashboardServiceInterface.
type mockDashboardService struct {
	summaryFn func(ctx context.Context, windowDays int) (*model.DashboardSummary, error)
}

func (m *mockDashboardService) Summary(ctx context.Context, windowDays int) (*model.DashboardSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, windowDays)
	}
	return &model.DashboardSummary{Chart: []model.ChartPoint{}}, nil
}

// mockRanker is a mock implementation of RankerInterface.
type mockRanker struct {
	topFn func(ctx context.Context, q model.TopQuery) (*model.TopResult, error)
}

func (m *mockRanker) Top(ctx context.Context, q model.TopQuery) (*model.TopResult, error) {
	if m.topFn != nil {
		return m.topFn(ctx, q)
	}
	return &model.TopResult{Filter: model.AllTimeLabel, Entities: []model.TopEntity{}}, nil
}

// mockPool implements a minimal interface for testing health checks
type mockPool struct {
	pingErr error
}

func (m *mockPool) Ping(ctx context.Context) error {
	return m.pingErr
}

type fixedPending int

func (p fixedPending) InFlight() int { return int(p) }

func strPtr(s string) *string {
	return &s
}
