package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	releaseFn     func(ctx context.Context, key string) error
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, key)
	}
	return nil
}

func postWithKey(path, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_StoreErrorRejects(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("/api/v1/payments/received", "key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var (
		gotKey  string
		gotTTL  time.Duration
		stored  []byte
		claimed bool
	)
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			claimed = true
			gotKey = key
			return false, nil, nil
		},
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			gotTTL = ttl
			stored = response
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 2*time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"voucher_no":"RV-1"}`))
	})).ServeHTTP(rr, postWithKey("/api/v1/payments/received", "key-1"))

	if !claimed {
		t.Fatalf("expected key to be claimed")
	}
	if gotKey != "POST:/api/v1/payments/received:key-1" {
		t.Fatalf("unexpected scoped key %q", gotKey)
	}
	if gotTTL != 2*time.Hour {
		t.Fatalf("expected ttl 2h, got %s", gotTTL)
	}

	var resp storedResponse
	if err := json.Unmarshal(stored, &resp); err != nil {
		t.Fatalf("stored response is not json: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected stored status 201, got %d", resp.Status)
	}
	if string(resp.Body) != `{"voucher_no":"RV-1"}` {
		t.Fatalf("unexpected stored body %s", resp.Body)
	}
}

func TestIdempotencyMiddleware_ReleasesFailedResponses(t *testing.T) {
	var updated, released bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 0)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})).ServeHTTP(rr, postWithKey("/api/v1/ledger/transfers", "key-fail"))

	if updated {
		t.Fatalf("failed response should not be stored")
	}
	if !released {
		t.Fatalf("failed response should release the key")
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	cached, _ := json.Marshal(storedResponse{Status: http.StatusCreated, Body: json.RawMessage(`{"id":"x"}`)})
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, cached, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	var called bool
	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("/api/v1/expenses", "key-1"))

	if called {
		t.Fatalf("handler should not run on replay")
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", rr.Code)
	}
	if rr.Header().Get(IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replay header")
	}
	if rr.Body.String() != `{"id":"x"}` {
		t.Fatalf("unexpected replay body %q", rr.Body.String())
	}
}

func TestIdempotencyMiddleware_ReplaysNoContentWithoutBody(t *testing.T) {
	cached, _ := json.Marshal(storedResponse{Status: http.StatusNoContent})
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, cached, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/chart/level1/1", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-put")
	rr := httptest.NewRecorder()
	mw.Wrap(http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
}

func TestIdempotencyMiddleware_InProgressConflicts(t *testing.T) {
	for _, value := range [][]byte{nil, []byte(processingMarker)} {
		store := &fakeIdempotencyStore{
			checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
				return true, value, nil
			},
		}
		mw := NewIdempotencyMiddleware(store, time.Minute)

		rr := httptest.NewRecorder()
		mw.Wrap(http.NotFoundHandler()).ServeHTTP(rr, postWithKey("/api/v1/expenses", "key-1"))

		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409 for %q, got %d", value, rr.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["outcome"] != "nothing_changed" {
			t.Fatalf("unexpected outcome %q", body["outcome"])
		}
	}
}

func TestIdempotencyMiddleware_SkipsWithoutKeyOrForReads(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted")
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rr := httptest.NewRecorder()
	mw.Wrap(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/expenses", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 without key, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rr = httptest.NewRecorder()
	mw.Wrap(ok).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", rr.Code)
	}
}
