package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/factoryledger/internal/adapter/http/handler"
	"github.com/iho/factoryledger/internal/adapter/http/middleware"
	"github.com/iho/factoryledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ChartHandler     *handler.ChartHandler
	LedgerHandler    *handler.LedgerHandler
	PaymentHandler   *handler.PaymentHandler
	SubledgerHandler *handler.SubledgerHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	HTTPMetrics      *middleware.HTTPMetrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/chart", func(r chi.Router) {
			for level := 1; level <= 3; level++ {
				prefix := fmt.Sprintf("/level%d", level)
				r.Get(prefix, cfg.ChartHandler.List(level))
				r.Post(prefix, cfg.ChartHandler.Create(level))
				r.Put(prefix+"/{id}", cfg.ChartHandler.Update(level))
				r.Delete(prefix+"/{id}", cfg.ChartHandler.Delete(level))
			}
			r.Get("/accounts/{id}", cfg.ChartHandler.Get)
			r.Get("/accounts/{id}/resolve", cfg.ChartHandler.Resolve)
		})

		// General ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", cfg.LedgerHandler.View)
			r.Get("/statement", cfg.LedgerHandler.Statement)
			r.Get("/reference/{ref}", cfg.LedgerHandler.ByReference)
			r.Post("/postings", cfg.LedgerHandler.PostSingle)
			r.Post("/transfers", cfg.LedgerHandler.PostTransfer)
			r.Get("/consistency", cfg.LedgerHandler.Consistency)
		})

		// Vouchers
		r.Post("/payments/received", cfg.PaymentHandler.Received)
		r.Post("/payments/issued", cfg.PaymentHandler.Issued)
		r.Post("/payments/long-voucher", cfg.PaymentHandler.LongVoucher)
		r.Post("/expenses", cfg.PaymentHandler.Expense)

		// Bank subledger
		r.Post("/bank-accounts", cfg.SubledgerHandler.CreateBankAccount)
		r.Get("/bank-accounts", cfg.SubledgerHandler.ListBankAccounts)
		r.Get("/bank-accounts/{id}/transactions", cfg.SubledgerHandler.ListBankTransactions)
		r.Post("/bank-transactions", cfg.SubledgerHandler.CreateBankTransaction)

		// Cash subledger
		r.Post("/cash-transactions", cfg.SubledgerHandler.CreateCashTransaction)
		r.Get("/cash-balances", cfg.SubledgerHandler.CashBalances)
		r.Get("/cash-books/{id}/transactions", cfg.SubledgerHandler.ListCashTransactions)

		r.Get("/subledgers/{kind}/{id}/verify", cfg.SubledgerHandler.Verify)

		// Reports
		r.Get("/reports/cash-flow", cfg.ReportHandler.CashFlow)
	})

	return r
}
