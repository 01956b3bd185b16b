package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// ChartReader defines the windowed read side of the daily stat store.
type ChartReader interface {
	ChartTotals(ctx context.Context, from, to string) ([]model.ChartPoint, error)
}

// ActiveCounter counts live catalog records.
type ActiveCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// UserCounter counts registered users.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardService computes the windowed chart and KPI summary.
type DashboardService struct {
	stats   ChartReader
	stores  ActiveCounter
	coupons ActiveCounter
	users   UserCounter
	clock   Clock
}

// NewDashboardService creates a new DashboardService. A nil clock falls back to SystemClock.
func NewDashboardService(stats ChartReader, stores, coupons ActiveCounter, users UserCounter, clock Clock) *DashboardService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &DashboardService{
		stats:   stats,
		stores:  stores,
		coupons: coupons,
		users:   users,
		clock:   clock,
	}
}

// Window returns the inclusive [today-windowDays, today] bounds as calendar days.
func (s *DashboardService) Window(windowDays int) (from, to string) {
	today := s.clock.Now().UTC()
	return today.AddDate(0, 0, -windowDays).Format(model.DateLayout), today.Format(model.DateLayout)
}

// ChartData returns per-day totals across all entities for the trailing window,
// ascending by date. Days without any bucket are absent.
// Returns ErrInvalidRequest if windowDays is negative.
func (s *DashboardService) ChartData(ctx context.Context, windowDays int) ([]model.ChartPoint, error) {
	if windowDays < 0 {
		return nil, ErrInvalidRequest
	}
	from, to := s.Window(windowDays)
	points, err := s.stats.ChartTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("chart totals %s..%s: %w", from, to, err)
	}
	if points == nil {
		points = []model.ChartPoint{}
	}
	return points, nil
}

// Summary fetches the catalog counts and the chart concurrently.
// The first failure cancels the remaining queries.
func (s *DashboardService) Summary(ctx context.Context, windowDays int) (*model.DashboardSummary, error) {
	var (
		summary model.DashboardSummary
		chart   []model.ChartPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.stores.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("count active stores: %w", err)
		}
		summary.KPI.Stores = n
		return nil
	})
	g.Go(func() error {
		n, err := s.coupons.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("count active coupons: %w", err)
		}
		summary.KPI.Coupons = n
		return nil
	})
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		summary.KPI.Users = n
		return nil
	})
	g.Go(func() error {
		points, err := s.ChartData(gctx, windowDays)
		if err != nil {
			return err
		}
		chart = points
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range chart {
		summary.KPI.TotalActions += p.TotalActions
	}
	summary.Chart = chart
	return &summary, nil
}
