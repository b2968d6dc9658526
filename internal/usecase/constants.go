package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultHierarchyCacheTTL bounds how long a cached chart may be served
	DefaultHierarchyCacheTTL = 10 * time.Minute

	// DefaultBalanceWorkers bounds concurrent per-account balance queries
	DefaultBalanceWorkers = 8

	// longVoucherAttempts is how many random suffixes are tried per day
	longVoucherAttempts = 10
)
