package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"b1"}}`))
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
		req.Header.Set(IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	handler := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set(IdempotencyHeader, "key-2")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	defer store.Stop()

	ctx := context.Background()
	store.Set(ctx, "k", &CachedResponse{StatusCode: http.StatusOK})
	time.Sleep(5 * time.Millisecond)

	_, found := store.Get(ctx, "k")
	assert.False(t, found)
}

func TestInMemoryIdempotencyStore_SetIfAbsent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()
	ctx := context.Background()

	assert.True(t, store.SetIfAbsent(ctx, "k", &CachedResponse{StatusCode: http.StatusAccepted}))
	assert.False(t, store.SetIfAbsent(ctx, "k", &CachedResponse{StatusCode: http.StatusAccepted}))

	store.Delete(ctx, "k")
	assert.True(t, store.SetIfAbsent(ctx, "k", &CachedResponse{StatusCode: http.StatusAccepted}))
}

func TestInMemoryIdempotencyStore_SetIfAbsentReplacesExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	defer store.Stop()
	ctx := context.Background()

	require.True(t, store.SetIfAbsent(ctx, "k", &CachedResponse{StatusCode: http.StatusAccepted}))
	time.Sleep(5 * time.Millisecond)

	assert.True(t, store.SetIfAbsent(ctx, "k", &CachedResponse{StatusCode: http.StatusAccepted}))
}

func TestBackgroundWorkersStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewInMemoryIdempotencyStore(time.Hour)
	limiter := NewRateLimiter(1, time.Minute, nil, nil)

	store.Stop()
	store.Stop()
	limiter.Stop()
}
