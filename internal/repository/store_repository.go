package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
)

// StoreRepository provides the store reads used by analytics.
type StoreRepository struct {
	pool PoolInterface
}

// NewStoreRepository creates a new StoreRepository with the given pool.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// NewStoreRepositoryWithPool creates a new StoreRepository with a custom pool interface.
func NewStoreRepositoryWithPool(pool PoolInterface) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// CountActive returns the number of active stores.
func (r *StoreRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active stores: %w", err)
	}
	return n, nil
}

// FindByIDs loads the given stores keyed by id. Missing stores are absent from the map.
func (r *StoreRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Store, error) {
	found := make(map[string]*model.Store, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT id::text, name, icon FROM stores WHERE id = ANY($1::uuid[])`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find stores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var store model.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Icon); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		found[store.ID] = &store
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store rows: %w", err)
	}
	return found, nil
}
