package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/kafka"
	"slotly/pkg/logger"
	"slotly/pkg/middleware"
	"slotly/pkg/model"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type mapStore struct {
	mu   sync.Mutex
	data map[string]*middleware.CachedResponse
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string]*middleware.CachedResponse{}}
}

func (s *mapStore) SetIfAbsent(ctx context.Context, key string, r *middleware.CachedResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false
	}
	s.data[key] = r
	return true
}

func (s *mapStore) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func newWebhook(raw string) *middleware.Webhook {
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body == nil {
		body = map[string]any{}
	}
	return &middleware.Webhook{RawBody: []byte(raw), Body: body}
}

func newTestService(pub Publisher, store DedupeStore) *webhookService {
	cfg := &config.Config{ServiceName: "slotly-api", Log: logger.Discard()}
	svc := NewWebhookService(pub, store, cfg).(*webhookService)
	svc.now = func() time.Time { return time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestReceive_PublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, newMapStore())

	raw := `{"id":"evt_1","type":"payment.succeeded","amount":9007199254740993}`
	result, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, "stripe:evt_1", msg.Key)
	assert.Equal(t, "payment.succeeded", msg.GetEventType())
	assert.Equal(t, SchemaVersion, msg.Headers[kafka.HeaderSchemaVersion])

	var event model.WebhookEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "stripe", event.Provider)
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, raw, string(event.Payload), "payload must keep the original bytes")
}

func TestReceive_Duplicate(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, newMapStore())
	raw := `{"id":"evt_1","type":"x"}`

	_, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
	require.NoError(t, err)

	result, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Len(t, pub.messages, 1)

	// Same id from another provider is a different event.
	result, err = svc.Receive(context.Background(), "paypal", newWebhook(raw))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Len(t, pub.messages, 2)
}

func TestReceive_ConcurrentDeliveriesPublishOnce(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, newMapStore())
	raw := `{"id":"evt_race","type":"x"}`

	const deliveries = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		duplicates int
	)
	start := make(chan struct{})
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
			if err != nil {
				t.Errorf("Receive() error = %v", err)
				return
			}
			if result.Duplicate {
				mu.Lock()
				duplicates++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Len(t, pub.messages, 1)
	assert.Equal(t, deliveries-1, duplicates)
}

func TestReceive_RetryAfterPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	svc := newTestService(pub, newMapStore())
	raw := `{"id":"evt_retry"}`

	_, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
	require.Error(t, err)

	pub.mu.Lock()
	pub.err = nil
	pub.mu.Unlock()

	result, err := svc.Receive(context.Background(), "stripe", newWebhook(raw))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Len(t, pub.messages, 1)
}

func TestReceive_AlternativeIDPaths(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantType string
	}{
		{name: "top level", raw: `{"id":"a","type":"t"}`, wantID: "a", wantType: "t"},
		{name: "event_id", raw: `{"event_id":"b","event_type":"u"}`, wantID: "b", wantType: "u"},
		{name: "nested", raw: `{"event":{"id":"c","type":"v"}}`, wantID: "c", wantType: "v"},
		{name: "numeric id", raw: `{"id":12345}`, wantID: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(nil, newMapStore())
			result, err := svc.Receive(context.Background(), "generic", newWebhook(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, result.Event.EventID)
			assert.Equal(t, tt.wantType, result.Event.Type)
		})
	}
}

func TestReceive_MalformedBodyStillAccepted(t *testing.T) {
	pub := &fakePublisher{}
	store := newMapStore()
	svc := newTestService(pub, store)

	result, err := svc.Receive(context.Background(), "stripe", newWebhook(`{"id": "evt_1", broken`))
	require.NoError(t, err)
	assert.Equal(t, result.Event.ID, result.Event.EventID, "falls back to generated id")
	assert.Empty(t, store.data, "nothing to dedupe on")

	var event model.WebhookEvent
	require.NoError(t, json.Unmarshal(pub.messages[0].Value, &event))
	var payload string
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, `{"id": "evt_1", broken`, payload)
}

func TestReceive_PublishFailure(t *testing.T) {
	store := newMapStore()
	svc := newTestService(&fakePublisher{err: errors.New("connection refused")}, store)

	_, err := svc.Receive(context.Background(), "stripe", newWebhook(`{"id":"evt_1"}`))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode())
	assert.Empty(t, store.data, "failed delivery must stay retryable")
}

func TestReceive_InvalidProvider(t *testing.T) {
	svc := newTestService(nil, nil)

	for _, provider := range []string{"", "Stripe", "a/b", "this-provider-name-is-way-too-long-to-accept"} {
		_, err := svc.Receive(context.Background(), provider, newWebhook(`{}`))
		assert.Error(t, err, "provider %q", provider)
	}
}
