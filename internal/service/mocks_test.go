package service

import (
	"context"
	"time"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// fixedClock returns the same instant on every call.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// mockStatWriter is a mock implementation of DailyStatWriter.
type mockStatWriter struct {
	incrementFn func(ctx context.Context, targetID string, targetType model.TargetType, date string, views, actions int64) error
}

func (m *mockStatWriter) Increment(ctx context.Context, targetID string, targetType model.TargetType, date string, views, actions int64) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, targetID, targetType, date, views, actions)
	}
	return nil
}

// mockUsageCounter is a mock implementation of CouponUsageCounter.
type mockUsageCounter struct {
	incrementFn func(ctx context.Context, couponID string) error
}

func (m *mockUsageCounter) IncrementUsedCount(ctx context.Context, couponID string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, couponID)
	}
	return nil
}

// mockChartReader is a mock implementation of ChartReader.
type mockChartReader struct {
	chartTotalsFn func(ctx context.Context, from, to string) ([]model.ChartPoint, error)
}

func (m *mockChartReader) ChartTotals(ctx context.Context, from, to string) ([]model.ChartPoint, error) {
	if m.chartTotalsFn != nil {
		return m.chartTotalsFn(ctx, from, to)
	}
	return []model.ChartPoint{}, nil
}

// mockCounter implements ActiveCounter and UserCounter.
type mockCounter struct {
	n   int64
	err error
}

func (m *mockCounter) CountActive(ctx context.Context) (int64, error) { return m.n, m.err }
func (m *mockCounter) Count(ctx context.Context) (int64, error)       { return m.n, m.err }

// mockRankingReader is a mock implementation of RankingReader.
type mockRankingReader struct {
	topTargetsFn func(ctx context.Context, targetType model.TargetType, period *model.MonthFilter, limit int) ([]model.RankedTarget, error)
}

func (m *mockRankingReader) TopTargets(ctx context.Context, targetType model.TargetType, period *model.MonthFilter, limit int) ([]model.RankedTarget, error) {
	if m.topTargetsFn != nil {
		return m.topTargetsFn(ctx, targetType, period, limit)
	}
	return []model.RankedTarget{}, nil
}

// mockCouponLookup is a mock implementation of CouponLookup.
type mockCouponLookup struct {
	findFn func(ctx context.Context, ids []string) (map[string]*model.Coupon, error)
}

func (m *mockCouponLookup) FindWithStores(ctx context.Context, ids []string) (map[string]*model.Coupon, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ids)
	}
	return map[string]*model.Coupon{}, nil
}

// mockStoreLookup is a mock implementation of StoreLookup.
type mockStoreLookup struct {
	findFn func(ctx context.Context, ids []string) (map[string]*model.Store, error)
}

func (m *mockStoreLookup) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Store, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ids)
	}
	return map[string]*model.Store{}, nil
}

func strPtr(s string) *string {
	return &s
}
