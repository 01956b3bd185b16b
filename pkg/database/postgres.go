package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PoolOptions controls connection retries.
type PoolOptions struct {
	// MaxRetries is the number of connection attempts; values below 1 mean one attempt.
	MaxRetries int
	// BaseBackoff is doubled after every failed attempt. Defaults to 1s.
	BaseBackoff time.Duration
	// MaxBackoff caps a single wait. Defaults to 16s.
	MaxBackoff time.Duration
}

func (o PoolOptions) attempts() int {
	if o.MaxRetries < 1 {
		return 1
	}
	return o.MaxRetries
}

func (o PoolOptions) backoff(attempt int) time.Duration {
	base, ceiling := o.BaseBackoff, o.MaxBackoff
	if base <= 0 {
		base = time.Second
	}
	if ceiling <= 0 {
		ceiling = 16 * time.Second
	}
	d := base << attempt
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}

// NewPool creates a PostgreSQL connection pool, pinging it before returning.
// Failed attempts back off exponentially; ctx cancellation aborts the wait.
func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	attempts := opts.attempts()
	for attempt := 0; attempt < attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Info().
					Str("host", poolCfg.ConnConfig.Host).
					Str("database", poolCfg.ConnConfig.Database).
					Int32("max_conns", poolCfg.MaxConns).
					Msg("database connection established")
				return pool, nil
			} else {
				pool.Close()
				err = fmt.Errorf("ping failed: %w", pingErr)
			}
		}

		if attempt == attempts-1 {
			break
		}

		wait := opts.backoff(attempt)
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", attempts).
			Dur("next_retry_in", wait).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
}
