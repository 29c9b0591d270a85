package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"slotly/pkg/logger"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyBody struct {
	io.Reader
	reads int
}

func (s *spyBody) Read(p []byte) (int, error) {
	s.reads++
	return s.Reader.Read(p)
}

func (s *spyBody) Close() error { return nil }

func TestWebhookRawBody_CapturesExactBytes(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		wantBody map[string]any
	}{
		{
			name:     "json object",
			body:     []byte(`{"id":"evt_1","type":"payment.succeeded","amount":1000}`),
			wantBody: map[string]any{"id": "evt_1", "type": "payment.succeeded", "amount": float64(1000)},
		},
		{
			name:     "whitespace and key order are preserved",
			body:     []byte("{ \"b\" : 1,\n  \"a\":2 }"),
			wantBody: map[string]any{"a": float64(2), "b": float64(1)},
		},
		{
			name:     "non-ascii payload",
			body:     []byte(`{"name":"Запис на стрижку ✂"}`),
			wantBody: map[string]any{"name": "Запис на стрижку ✂"},
		},
		{
			name:     "malformed json degrades to empty object",
			body:     []byte(`{"id": "evt_1",`),
			wantBody: map[string]any{},
		},
		{
			name:     "json array is not an object",
			body:     []byte(`[1,2,3]`),
			wantBody: map[string]any{},
		},
		{
			name:     "json null",
			body:     []byte(`null`),
			wantBody: map[string]any{},
		},
		{
			name:     "empty body",
			body:     []byte{},
			wantBody: map[string]any{},
		},
		{
			name:     "invalid utf-8 bytes",
			body:     []byte{0xff, 0xfe, 0x00, 0x7b},
			wantBody: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			var captured *Webhook
			var downstream []byte

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				var ok bool
				captured, ok = WebhookFromContext(r.Context())
				require.True(t, ok, "webhook should be attached to the context")
				downstream, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusAccepted)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(tt.body))
			rec := httptest.NewRecorder()

			WebhookRawBody(logger.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, 1, calls, "next must run exactly once")
			assert.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, tt.body, captured.RawBody)
			assert.Equal(t, tt.wantBody, captured.Body)
			assert.Equal(t, tt.body, downstream, "body must be readable again downstream")
		})
	}
}

func TestWebhookRawBody_SkipsOtherPaths(t *testing.T) {
	paths := []string{
		"/api/v1/bookings",
		"/api/v1/webhooks",
		"/webhooks",
		"/api/v1/webhook/stripe",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			body := &spyBody{Reader: strings.NewReader(`{"a":1}`)}
			calls := 0

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				_, ok := WebhookFromContext(r.Context())
				assert.False(t, ok, "no webhook field outside webhook paths")
				assert.Zero(t, body.reads, "body must not be consumed")
			})

			req := httptest.NewRequest(http.MethodPost, path, nil)
			req.Body = body
			rec := httptest.NewRecorder()

			WebhookRawBody(logger.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, 1, calls)
			assert.Zero(t, body.reads)
		})
	}
}

func TestWebhookRawBody_BodyTooLarge(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := MaxRequestSize(8)(WebhookRawBody(logger.Discard())(next))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{"id":"evt_123456"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestIsWebhookPath(t *testing.T) {
	assert.True(t, IsWebhookPath("/api/v1/webhooks/stripe"))
	assert.True(t, IsWebhookPath("/webhooks/"))
	assert.False(t, IsWebhookPath("/api/v1/webhooks"))
	assert.False(t, IsWebhookPath("/api/v1/bookings"))
}
