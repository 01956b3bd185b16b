package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DailyStatRepository provides data access for per-entity daily counters.
type DailyStatRepository struct {
	pool PoolInterface
}

// NewDailyStatRepository creates a new DailyStatRepository with the given pool.
func NewDailyStatRepository(pool *pgxpool.Pool) *DailyStatRepository {
	return &DailyStatRepository{pool: pool}
}

// NewDailyStatRepositoryWithPool creates a new DailyStatRepository with a custom pool interface.
// This is primarily used for testing.
func NewDailyStatRepositoryWithPool(pool PoolInterface) *DailyStatRepository {
	return &DailyStatRepository{pool: pool}
}

// Increment adds views/actions to the (target, type, date) bucket, creating it if absent.
// A single upsert statement keeps concurrent increments on the same bucket lossless.
func (r *DailyStatRepository) Increment(ctx context.Context, targetID string, targetType model.TargetType, date string, views, actions int64) error {
	query := `
		INSERT INTO daily_stats (target_id, target_type, stat_date, views, actions)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (target_id, target_type, stat_date)
		DO UPDATE SET
			views = daily_stats.views + EXCLUDED.views,
			actions = daily_stats.actions + EXCLUDED.actions`

	_, err := r.pool.Exec(ctx, query, targetID, string(targetType), date, views, actions)
	if err != nil {
		return fmt.Errorf("upsert daily stat %s/%s/%s: %w", targetType, targetID, date, err)
	}
	return nil
}

// Get reads back a single bucket for write verification.
// Returns nil, nil if it does not exist.
func (r *DailyStatRepository) Get(ctx context.Context, targetID string, targetType model.TargetType, date string) (*model.DailyStat, error) {
	query := `
		SELECT target_id::text, target_type, to_char(stat_date, 'YYYY-MM-DD'), views, actions
		FROM daily_stats
		WHERE target_id = $1 AND target_type = $2 AND stat_date = $3::date`

	var (
		stat       model.DailyStat
		targetKind string
	)
	err := r.pool.QueryRow(ctx, query, targetID, string(targetType), date).Scan(
		&stat.TargetID,
		&targetKind,
		&stat.Date,
		&stat.Views,
		&stat.Actions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily stat %s/%s/%s: %w", targetType, targetID, date, err)
	}
	stat.TargetType = model.TargetType(targetKind)
	return &stat, nil
}

// ChartTotals sums views and actions per day across all entities for days in [from, to].
// Days with no buckets are omitted. Ordered by date ascending.
func (r *DailyStatRepository) ChartTotals(ctx context.Context, from, to string) ([]model.ChartPoint, error) {
	query := `
		SELECT to_char(stat_date, 'YYYY-MM-DD') AS date,
			COALESCE(SUM(views), 0) AS total_views,
			COALESCE(SUM(actions), 0) AS total_actions
		FROM daily_stats
		WHERE stat_date >= $1::date AND stat_date <= $2::date
		GROUP BY stat_date
		ORDER BY stat_date`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("chart totals %s..%s: %w", from, to, err)
	}
	defer rows.Close()

	points := []model.ChartPoint{}
	for rows.Next() {
		var p model.ChartPoint
		if err := rows.Scan(&p.Date, &p.TotalViews, &p.TotalActions); err != nil {
			return nil, fmt.Errorf("scan chart point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart rows: %w", err)
	}
	return points, nil
}

// TopTargets sums actions per target of the given type and returns the top limit,
// ordered by total actions descending and target id ascending.
// A nil period ranks over all time.
func (r *DailyStatRepository) TopTargets(ctx context.Context, targetType model.TargetType, period *model.MonthFilter, limit int) ([]model.RankedTarget, error) {
	query := `
		SELECT target_id::text, COALESCE(SUM(actions), 0) AS total_actions
		FROM daily_stats
		WHERE target_type = $1`
	args := []any{string(targetType)}

	if period != nil {
		from, to := period.Range()
		query += ` AND stat_date >= $2::date AND stat_date < $3::date`
		args = append(args, from, to)
	}

	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY target_id
		ORDER BY total_actions DESC, target_id ASC
		LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top %s targets: %w", targetType, err)
	}
	defer rows.Close()

	ranked := []model.RankedTarget{}
	for rows.Next() {
		var rt model.RankedTarget
		if err := rows.Scan(&rt.TargetID, &rt.TotalActions); err != nil {
			return nil, fmt.Errorf("scan ranked target: %w", err)
		}
		ranked = append(ranked, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked rows: %w", err)
	}
	return ranked, nil
}
