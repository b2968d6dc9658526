package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/factoryledger/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.PostingCommitted(domain.PostingKindSale, 2)
	m.BalanceComputed(3, 20*time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestPostingCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.PostingCommitted(domain.PostingKindLongVoucher, 2)
	m.PostingCommitted(domain.PostingKindPayment, 1)
	m.PostingRejected("insufficient_balance")
	m.PostingRejected("insufficient_balance")

	if got := testutil.ToFloat64(m.PostingsCommitted.WithLabelValues("LONG_VOUCHER")); got != 1 {
		t.Fatalf("expected 1 long voucher, got %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerRowsWritten); got != 3 {
		t.Fatalf("expected 3 rows written, got %v", got)
	}
	if got := testutil.ToFloat64(m.PostingsRejected.WithLabelValues("insufficient_balance")); got != 2 {
		t.Fatalf("expected 2 insufficient balance rejections, got %v", got)
	}
}

func TestSubledgerAppends(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SubledgerAppended(domain.InstrumentCash)
	m.SubledgerAppended(domain.InstrumentBank)
	m.SubledgerAppended(domain.InstrumentCash)

	if got := testutil.ToFloat64(m.SubledgerAppends.WithLabelValues("CASH")); got != 2 {
		t.Fatalf("expected 2 cash appends, got %v", got)
	}
}

func TestBalanceHistogram(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.BalanceComputed(1, 5*time.Millisecond)
	m.BalanceComputed(1, 7*time.Millisecond)

	if n := testutil.CollectAndCount(m.BalanceDuration, "factoryledger_balance_computation_seconds"); n != 1 {
		t.Fatalf("expected one level series, got %d", n)
	}
}
