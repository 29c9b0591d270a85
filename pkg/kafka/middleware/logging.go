package kafka_middleware

import (
	"context"
	"time"

	"slotly/pkg/kafka"
	"slotly/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		l := log.WithContext(ctx)

		l.Debug("Publishing message",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
		)

		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			l.Error("Failed to publish message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"error_type", kafka.ClassifyError(err).String(),
				"duration", duration,
				"error", err,
			)
			return err
		}

		l.Info("Published message",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"duration", duration,
		)
		return nil
	}
}
