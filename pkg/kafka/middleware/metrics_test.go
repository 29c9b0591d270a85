package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"slotly/pkg/kafka"
	"slotly/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAndLogging(t *testing.T) {
	var m Metrics
	mw := m.Middleware()
	logging := LoggingProducerMiddleware(logger.Discard())

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("broken pipe") }

	msg := kafka.Message{Key: "k", Value: []byte("{}"), Headers: map[string]string{}}
	assert.NoError(t, mw(context.Background(), msg, ok))
	assert.NoError(t, logging(context.Background(), msg, ok))
	assert.Error(t, mw(context.Background(), msg, fail))
	assert.Error(t, logging(context.Background(), msg, fail))

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.Published)
	assert.Equal(t, int64(1), s.Failed)
}
