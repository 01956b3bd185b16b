package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

const (
	// DefaultTopLimit is used when the caller does not supply a limit.
	DefaultTopLimit = 5
	// MinTopLimit and MaxTopLimit bound every ranking.
	MinTopLimit = 1
	MaxTopLimit = 20
)

// ClampLimit normalizes a caller-supplied limit into [MinTopLimit, MaxTopLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < MinTopLimit:
		return MinTopLimit
	case limit > MaxTopLimit:
		return MaxTopLimit
	default:
		return limit
	}
}

// RankingReader defines the ranking read side of the daily stat store.
// Results are ordered by summed actions descending, then target id ascending.
type RankingReader interface {
	TopTargets(ctx context.Context, targetType model.TargetType, period *model.MonthFilter, limit int) ([]model.RankedTarget, error)
}

// CouponLookup loads coupons with their parent store, keyed by coupon id.
type CouponLookup interface {
	FindWithStores(ctx context.Context, ids []string) (map[string]*model.Coupon, error)
}

// StoreLookup loads stores keyed by store id.
type StoreLookup interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Store, error)
}

// Ranker produces top-N entity reports by summed actions.
type Ranker struct {
	stats   RankingReader
	coupons CouponLookup
	stores  StoreLookup
}

// NewRanker creates a new Ranker.
func NewRanker(stats RankingReader, coupons CouponLookup, stores StoreLookup) *Ranker {
	return &Ranker{stats: stats, coupons: coupons, stores: stores}
}

// Top ranks entities of q.TargetType by summed actions and enriches each row
// with localized display data. Entities that no longer exist still appear,
// with null code/icon and the UnknownStoreName placeholder.
func (r *Ranker) Top(ctx context.Context, q model.TopQuery) (*model.TopResult, error) {
	if !q.TargetType.Valid() {
		return nil, ErrUnsupportedTarget
	}
	limit := ClampLimit(q.Limit)

	ranked, err := r.stats.TopTargets(ctx, q.TargetType, q.Period, limit)
	if err != nil {
		return nil, fmt.Errorf("top %s targets: %w", q.TargetType, err)
	}

	result := &model.TopResult{
		Filter:   model.AllTimeLabel,
		Entities: make([]model.TopEntity, 0, len(ranked)),
	}
	if q.Period != nil {
		result.Filter = q.Period.Label()
	}
	if len(ranked) == 0 {
		return result, nil
	}

	ids := make([]string, len(ranked))
	for i, rt := range ranked {
		ids[i] = rt.TargetID
	}

	switch q.TargetType {
	case model.TargetCoupon:
		coupons, err := r.coupons.FindWithStores(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load ranked coupons: %w", err)
		}
		for _, rt := range ranked {
			result.Entities = append(result.Entities, couponEntity(rt, coupons[rt.TargetID], q.Language))
		}
	case model.TargetStore:
		stores, err := r.stores.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load ranked stores: %w", err)
		}
		for _, rt := range ranked {
			result.Entities = append(result.Entities, storeEntity(rt, stores[rt.TargetID], q.Language))
		}
	}

	log.Debug().
		Str("target_type", string(q.TargetType)).
		Str("filter", result.Filter).
		Int("limit", limit).
		Int("results", len(result.Entities)).
		Msg("ranking computed")

	return result, nil
}

func couponEntity(rt model.RankedTarget, c *model.Coupon, lang model.Language) model.TopEntity {
	e := model.TopEntity{
		ID:           rt.TargetID,
		TotalActions: rt.TotalActions,
		StoreName:    model.UnknownStoreName,
	}
	if c == nil {
		return e
	}
	code := c.Code
	e.Code = &code
	if c.Store != nil {
		e.StoreIcon = c.Store.Icon
		e.StoreName = c.Store.Name.Pick(lang)
	}
	return e
}

func storeEntity(rt model.RankedTarget, s *model.Store, lang model.Language) model.TopEntity {
	e := model.TopEntity{
		ID:           rt.TargetID,
		TotalActions: rt.TotalActions,
		StoreName:    model.UnknownStoreName,
	}
	if s == nil {
		return e
	}
	e.StoreIcon = s.Icon
	e.StoreName = s.Name.Pick(lang)
	return e
}
