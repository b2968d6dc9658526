package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLoggingMiddleware_LogsRequestWithLevelByStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		mw := NewLoggingMiddleware(zerolog.New(&buf))

		var ctxLogger *zerolog.Logger
		handler := chimiddleware.RequestID(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxLogger = zerolog.Ctx(r.Context())
			w.WriteHeader(tc.status)
		})))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil))

		if ctxLogger == nil || ctxLogger.GetLevel() == zerolog.Disabled {
			t.Fatalf("expected request logger in context")
		}

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not json: %v (%q)", err, buf.String())
		}
		if entry["level"] != tc.level {
			t.Fatalf("status %d: expected level %s, got %v", tc.status, tc.level, entry["level"])
		}
		if entry["status"] != float64(tc.status) {
			t.Fatalf("expected status field %d, got %v", tc.status, entry["status"])
		}
		if id, _ := entry["request_id"].(string); id == "" {
			t.Fatalf("expected request_id in log line")
		}
		if entry["path"] != "/api/v1/ledger" {
			t.Fatalf("unexpected path %v", entry["path"])
		}
	}
}
