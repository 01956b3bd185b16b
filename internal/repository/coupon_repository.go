package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/service"
)

// CouponRepository provides the coupon reads and counters used by analytics.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// IncrementUsedCount atomically adds 1 to a coupon's lifetime used_count.
// Returns service.ErrCouponNotFound if no coupon has the given id.
func (r *CouponRepository) IncrementUsedCount(ctx context.Context, couponID string) error {
	query := `UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, couponID)
	if err != nil {
		return fmt.Errorf("increment used count for %s: %w", couponID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// CountActive returns the number of active coupons.
func (r *CouponRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active coupons: %w", err)
	}
	return n, nil
}

// FindWithStores loads the given coupons joined to their parent store.
// Missing coupons are absent from the map; a coupon whose store is gone has a nil Store.
func (r *CouponRepository) FindWithStores(ctx context.Context, ids []string) (map[string]*model.Coupon, error) {
	found := make(map[string]*model.Coupon, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `
		SELECT c.id::text, c.code, s.id::text, s.name, s.icon
		FROM coupons c
		LEFT JOIN stores s ON s.id = c.store_id
		WHERE c.id = ANY($1::uuid[])`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find coupons with stores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			coupon  model.Coupon
			storeID *string
			name    model.LocalizedText
			icon    *string
		)
		// pgx decodes the JSONB name directly; NULL leaves name nil
		if err := rows.Scan(&coupon.ID, &coupon.Code, &storeID, &name, &icon); err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		if storeID != nil {
			coupon.Store = &model.Store{ID: *storeID, Name: name, Icon: icon}
		}
		found[coupon.ID] = &coupon
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return found, nil
}
