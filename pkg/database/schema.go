package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// Execer is implemented by pgxpool.Pool, pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// schemaStatements create the tables owned by the analytics service.
// Catalog tables (stores, coupons, users) belong to the catalog service.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS daily_stats (
		target_id   UUID   NOT NULL,
		target_type TEXT   NOT NULL CHECK (target_type IN ('Store', 'Coupon')),
		stat_date   DATE   NOT NULL,
		views       BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
		actions     BIGINT NOT NULL DEFAULT 0 CHECK (actions >= 0),
		PRIMARY KEY (target_id, target_type, stat_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_stats_type_date ON daily_stats (target_type, stat_date)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_stats (stat_date)`,
}

// EnsureSchema creates the daily_stats table and its indexes if missing.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(schemaStatements)).Msg("database schema ensured")
	return nil
}
