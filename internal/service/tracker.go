package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/observability"
)

// DailyStatWriter defines the write side of the daily stat store.
type DailyStatWriter interface {
	Increment(ctx context.Context, targetID string, targetType model.TargetType, date string, views, actions int64) error
}

// CouponUsageCounter defines the lifetime usage counter on coupons.
type CouponUsageCounter interface {
	IncrementUsedCount(ctx context.Context, couponID string) error
}

// Tracker records view/action events into daily buckets.
type Tracker struct {
	stats   DailyStatWriter
	coupons CouponUsageCounter
	clock   Clock
	metrics *observability.Metrics
}

// NewTracker creates a new Tracker. A nil clock falls back to SystemClock.
func NewTracker(stats DailyStatWriter, coupons CouponUsageCounter, clock Clock, metrics *observability.Metrics) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tracker{
		stats:   stats,
		coupons: coupons,
		clock:   clock,
		metrics: metrics,
	}
}

// Track applies one event.
//
// The bucket increment and, for coupon actions, the lifetime usedCount
// increment run concurrently and independently: one may succeed while the
// other fails. Every failure is logged here; the returned error joins them so
// callers that dispatch in the background can drop it.
func (t *Tracker) Track(ctx context.Context, ev model.TrackEvent) error {
	date := model.DayOf(t.clock.Now())
	views, actions := ev.Increments()

	var (
		g                  errgroup.Group
		statErr, couponErr error
	)

	g.Go(func() error {
		if err := t.stats.Increment(ctx, ev.TargetID, ev.TargetType, date, views, actions); err != nil {
			statErr = fmt.Errorf("increment daily stat: %w", err)
			log.Error().
				Err(err).
				Str("target_id", ev.TargetID).
				Str("target_type", string(ev.TargetType)).
				Str("action", string(ev.Action)).
				Str("date", date).
				Msg("failed to increment daily stat")
		}
		return nil
	})

	if ev.CountsAsCouponUse() {
		g.Go(func() error {
			if err := t.coupons.IncrementUsedCount(ctx, ev.TargetID); err != nil {
				couponErr = fmt.Errorf("increment coupon used count: %w", err)
				event := log.Error()
				if errors.Is(err, ErrCouponNotFound) {
					event = log.Warn()
				}
				event.
					Err(err).
					Str("coupon_id", ev.TargetID).
					Msg("failed to increment coupon used count")
			}
			return nil
		})
	}

	_ = g.Wait()

	err := errors.Join(statErr, couponErr)
	t.metrics.ObserveTrack(string(ev.TargetType), string(ev.Action), err == nil)
	return err
}
