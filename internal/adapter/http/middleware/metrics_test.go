package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
		wantPath   string
	}{
		{
			name:       "normalizes chart path",
			method:     http.MethodPut,
			path:       "/api/v1/chart/level2/17",
			statusCode: http.StatusTeapot,
			wantPath:   "/api/v1/chart/level2/{id}",
		},
		{
			name:       "normalizes verify path",
			method:     http.MethodGet,
			path:       "/api/v1/subledgers/BANK/4/verify",
			statusCode: http.StatusOK,
			wantPath:   "/api/v1/subledgers/{kind}/{id}/verify",
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
			wantPath:   "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := NewHTTPMetrics(reg)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := testutil.ToFloat64(m.requestsInFlight); got != 1 {
					t.Fatalf("expected 1 in-flight request, got %v", got)
				}
				w.WriteHeader(tc.statusCode)
			})

			rr := httptest.NewRecorder()
			m.Wrap(next).ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			counter := m.requestsTotal.WithLabelValues(tc.method, tc.wantPath, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected request counter 1 for %s, got %v", tc.wantPath, got)
			}
			if got := testutil.ToFloat64(m.requestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge back at 0, got %v", got)
			}
			if got := testutil.CollectAndCount(m.requestDuration); got != 1 {
				t.Fatalf("expected 1 duration series, got %d", got)
			}
		})
	}
}

func TestHTTPMetricsUsesChiRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Wrap)
	r.Get("/api/v1/ledger/reference/{ref}", func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/reference/RV-12", nil))

	counter := m.requestsTotal.WithLabelValues(http.MethodGet, "/api/v1/ledger/reference/{ref}", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected route pattern label, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/api/v1/chart/accounts/9/resolve":     "/api/v1/chart/accounts/{id}/resolve",
		"/api/v1/chart/level3/42":              "/api/v1/chart/level3/{id}",
		"/api/v1/bank-accounts/3/transactions": "/api/v1/bank-accounts/{id}/transactions",
		"/api/v1/cash-books/MAIN/transactions": "/api/v1/cash-books/{id}/transactions",
		"/api/v1/ledger/statement":             "/api/v1/ledger/statement",
		"/api/v1/reports/cash-flow":            "/api/v1/reports/cash-flow",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
