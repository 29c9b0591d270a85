package service

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	webhookerrors "slotly/internal/webhooks/errors"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/kafka"
	"slotly/pkg/logger"
	"slotly/pkg/middleware"
	"slotly/pkg/model"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	SchemaVersion = "1"
	dedupePrefix  = "webhook:"
)

var (
	providerRegex = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

	// Providers disagree on naming; the first non-empty path wins.
	eventIDPaths   = []string{"id", "event_id", "event.id"}
	eventTypePaths = []string{"type", "event_type", "event.type"}
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// DedupeStore is satisfied by every middleware.IdempotencyStore.
type DedupeStore interface {
	SetIfAbsent(ctx context.Context, key string, response *middleware.CachedResponse) bool
	Delete(ctx context.Context, key string)
}

type ReceiveResult struct {
	Event     *model.WebhookEvent
	Duplicate bool
}

type WebhookService interface {
	Receive(ctx context.Context, provider string, webhook *middleware.Webhook) (*ReceiveResult, error)
}

type webhookService struct {
	publisher Publisher
	dedupe    DedupeStore
	cfg       *config.Config
	now       func() time.Time
}

// NewWebhookService wires the service. publisher may be nil, in which case
// accepted events are only logged.
func NewWebhookService(publisher Publisher, dedupe DedupeStore, cfg *config.Config) WebhookService {
	return &webhookService{
		publisher: publisher,
		dedupe:    dedupe,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *webhookService) Receive(ctx context.Context, provider string, webhook *middleware.Webhook) (*ReceiveResult, error) {
	log := s.cfg.Log.WithContext(ctx)

	if !providerRegex.MatchString(provider) {
		return nil, apperrors.InvalidInput(webhookerrors.ErrInvalidProvider.Error())
	}
	if webhook == nil {
		return nil, apperrors.Internal("Webhook body unavailable", webhookerrors.ErrMissingBody)
	}

	valid := len(webhook.RawBody) > 0 && gjson.ValidBytes(webhook.RawBody)
	event := &model.WebhookEvent{
		ID:         uuid.New().String(),
		Provider:   provider,
		Payload:    payloadOf(webhook.RawBody, valid),
		ReceivedAt: s.now().UTC(),
	}
	if valid {
		event.EventID = firstString(webhook.RawBody, eventIDPaths)
		event.Type = firstString(webhook.RawBody, eventTypePaths)
	}

	// Without a provider id there is nothing to dedupe on. The key is claimed
	// before publishing so concurrent deliveries of one event publish once.
	dedupeKey := ""
	if event.EventID != "" && s.dedupe != nil {
		dedupeKey = dedupePrefix + event.Key()
		if !s.dedupe.SetIfAbsent(ctx, dedupeKey, &middleware.CachedResponse{StatusCode: http.StatusAccepted}) {
			log.Info("Duplicate webhook ignored", "provider", provider, "event_id", event.EventID)
			return &ReceiveResult{Event: event, Duplicate: true}, nil
		}
	}
	if event.EventID == "" {
		event.EventID = event.ID
	}

	if err := s.publish(ctx, log, event); err != nil {
		if dedupeKey != "" {
			// Release the claim so the provider's retry is not mistaken for a duplicate.
			s.dedupe.Delete(context.WithoutCancel(ctx), dedupeKey)
		}
		return nil, err
	}

	log.Info("Webhook accepted",
		"provider", provider,
		"event_id", event.EventID,
		"event_type", event.Type,
		"bytes", len(webhook.RawBody),
	)
	return &ReceiveResult{Event: event}, nil
}

func (s *webhookService) publish(ctx context.Context, log *logger.Logger, event *model.WebhookEvent) error {
	if s.publisher == nil {
		log.Debug("Kafka disabled, webhook event not published", "key", event.Key())
		return nil
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Key()).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithCorrelationID(logger.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(s.cfg.ServiceName).
		Build()
	if err != nil {
		return apperrors.Internal("Failed to encode webhook event", err)
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		// 503 makes the provider retry; the event was not recorded as seen.
		return apperrors.Unavailable("Event bus", err)
	}
	return nil
}

func firstString(raw []byte, paths []string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// payloadOf keeps valid JSON as is and wraps anything else in a JSON string so
// the event stays encodable.
func payloadOf(raw []byte, valid bool) json.RawMessage {
	if valid {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
