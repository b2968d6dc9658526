package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes that no amount of waiting will fix.
const (
	pgErrInvalidPassword      = "28P01"
	pgErrInvalidAuthorization = "28000"
	pgErrInvalidCatalog       = "3D000"
)

// Retrier retries startup dependencies (database, Redis, migrations) with
// exponential backoff. Posting paths never go through it.
type Retrier struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// New creates a Retrier that gives up after maxElapsed.
func New(maxElapsed time.Duration, logger zerolog.Logger) *Retrier {
	return &Retrier{
		initialInterval: 200 * time.Millisecond,
		maxInterval:     5 * time.Second,
		maxElapsedTime:  maxElapsed,
		logger:          logger,
	}
}

// Do runs operation until it succeeds, fails permanently, or time runs out.
func (r *Retrier) Do(ctx context.Context, name string, operation func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	attempt := 0

	return backoff.RetryNotify(func() error {
		attempt++
		err := operation(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		r.logger.Warn().
			Err(err).
			Str("dependency", name).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("dependency not ready, retrying")
	})
}

func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrInvalidPassword, pgErrInvalidAuthorization, pgErrInvalidCatalog:
			return true
		}
	}
	return false
}
