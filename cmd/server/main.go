package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/factoryledger/internal/adapter/http"
	"github.com/iho/factoryledger/internal/adapter/http/handler"
	"github.com/iho/factoryledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/factoryledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/factoryledger/internal/adapter/repository/redis"
	"github.com/iho/factoryledger/internal/infrastructure/config"
	"github.com/iho/factoryledger/internal/infrastructure/eventpublisher"
	"github.com/iho/factoryledger/internal/infrastructure/logger"
	"github.com/iho/factoryledger/internal/infrastructure/metrics"
	"github.com/iho/factoryledger/internal/infrastructure/postgres"
	"github.com/iho/factoryledger/internal/infrastructure/redis"
	"github.com/iho/factoryledger/internal/infrastructure/retry"
	"github.com/iho/factoryledger/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.SetGlobal(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	retrier := retry.New(cfg.StartupRetryTimeout, appLogger)

	// Connect to PostgreSQL
	var pool *pgxpool.Pool
	err := retrier.Do(ctx, "postgres", func(ctx context.Context) error {
		var err error
		pool, err = postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		err := retrier.Do(ctx, "redis", func(ctx context.Context) error {
			var err error
			redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
			return err
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled: idempotency keys and chart caching are off")
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	subledgerRepo := postgresRepo.NewSubledgerRepository(pool)
	bankRepo := postgresRepo.NewBankAccountRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	outboxRepo := newOutboxRepository(cfg, pool)
	idGen := postgresRepo.NewULIDGenerator()
	chartCache := cacheFor(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, txRepo, outboxRepo, chartCache, idGen, cfg.HierarchyCacheTTL)
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, txRepo, outboxRepo, chartCache, idGen, appMetrics)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, txRepo, appMetrics, cfg.BalanceWorkers)
	paymentUC := usecase.NewPaymentUseCase(txManager, accountRepo, txRepo, subledgerRepo, voucherRepo, outboxRepo, chartCache, idGen, appMetrics)
	subledgerUC := usecase.NewSubledgerUseCase(txManager, subledgerRepo, bankRepo, outboxRepo, idGen, appMetrics)
	bankUC := usecase.NewBankAccountUseCase(bankRepo, idGen)
	cashFlowUC := usecase.NewCashFlowUseCase(subledgerRepo, voucherRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txRepo, ledgerRepo, subledgerRepo, bankRepo)

	// Initialize handlers
	checks := []handler.Check{handler.PostgresCheck(pool)}
	if redisClient != nil {
		checks = append(checks, handler.RedisCheck(redisClient))
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics.RateLimitHits.Inc)

	routerCfg := httpAdapter.RouterConfig{
		ChartHandler:     handler.NewChartHandler(accountUC),
		LedgerHandler:    handler.NewLedgerHandler(balanceUC, postingUC, reconciliationUC),
		PaymentHandler:   handler.NewPaymentHandler(paymentUC),
		SubledgerHandler: handler.NewSubledgerHandler(subledgerUC, bankUC),
		ReportHandler:    handler.NewReportHandler(cashFlowUC),
		HealthHandler:    handler.NewHealthHandler(checks...),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		HTTPMetrics:      middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
		MetricsHandler:   promhttp.Handler(),
		Logger:           appLogger,
	}
	if redisClient != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  selectPublisher(redisClient, appLogger),
			Logger:     appLogger,
			Counters: eventpublisher.Counters{
				Published: appMetrics.OutboxPublished.Inc,
				Failed:    appMetrics.OutboxPublishErrors.Inc,
			},
			BatchSize: cfg.OutboxBatchSize,
			Interval:  cfg.OutboxInterval,
		})
		g.Go(func() error {
			if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(limiterIdleTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if removed := rateLimiter.CleanupLimiters(limiterIdleTimeout); removed > 0 {
					log.Debug().Int("removed", removed).Msg("dropped idle rate limiters")
				}
			}
		}
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newOutboxRepository returns the outbox table repository, or one that drops
// events when the outbox is disabled.
func newOutboxRepository(cfg *config.Config, pool *pgxpool.Pool) usecase.OutboxRepository {
	if !cfg.OutboxEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(pool)
}

// selectPublisher publishes to Redis when it is available and falls back to
// the log otherwise.
func selectPublisher(client *goredis.Client, l zerolog.Logger) eventpublisher.Publisher {
	if client == nil {
		return eventpublisher.NewLogPublisher(l)
	}
	return eventpublisher.NewRedisPublisher(client, eventpublisher.DefaultChannel)
}

// cacheFor returns a nil interface, not a typed nil, when Redis is off.
func cacheFor(client *goredis.Client) usecase.Cache {
	if client == nil {
		return nil
	}
	return redisRepo.NewCache(client)
}
