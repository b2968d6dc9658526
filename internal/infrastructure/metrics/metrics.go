package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/factoryledger/internal/domain"
)

const namespace = "factoryledger"

// Metrics holds the domain Prometheus metrics. It implements usecase.Metrics.
type Metrics struct {
	// Posting metrics
	PostingsCommitted *prometheus.CounterVec
	LedgerRowsWritten prometheus.Counter
	PostingsRejected  *prometheus.CounterVec

	// Subledger metrics
	SubledgerAppends *prometheus.CounterVec

	// Balance metrics
	BalanceDuration *prometheus.HistogramVec

	// Outbox metrics
	OutboxPublished     prometheus.Counter
	OutboxPublishErrors prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PostingsCommitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "postings_committed_total",
				Help:      "Committed ledger postings by kind",
			},
			[]string{"kind"},
		),
		LedgerRowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rows_written_total",
			Help:      "Ledger rows appended by committed postings",
		}),
		PostingsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "postings_rejected_total",
				Help:      "Rejected postings by reason",
			},
			[]string{"reason"},
		),

		SubledgerAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subledger_appends_total",
				Help:      "Subledger rows appended by instrument kind",
			},
			[]string{"instrument"},
		),

		BalanceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "balance_computation_seconds",
				Help:      "Time spent computing a balance window by chart level",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"level"},
		),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_published_total",
			Help:      "Outbox events published",
		}),
		OutboxPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_publish_errors_total",
			Help:      "Outbox events that failed to publish",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) PostingCommitted(kind domain.PostingKind, legs int) {
	m.PostingsCommitted.WithLabelValues(string(kind)).Inc()
	m.LedgerRowsWritten.Add(float64(legs))
}

func (m *Metrics) PostingRejected(reason string) {
	m.PostingsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SubledgerAppended(kind domain.InstrumentKind) {
	m.SubledgerAppends.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) BalanceComputed(level int, elapsed time.Duration) {
	m.BalanceDuration.WithLabelValues(strconv.Itoa(level)).Observe(elapsed.Seconds())
}
