package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"slotly/pkg/kafka"
)

// Metrics counts publish outcomes for one producer.
type Metrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64 // nanoseconds
}

type MetricsSnapshot struct {
	Published     int64         `json:"published"`
	Failed        int64         `json:"failed"`
	AvgPublishDur time.Duration `json:"avg_publish_ns"`
}

func (m *Metrics) Middleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.durationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.failed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Published: m.published.Load(),
		Failed:    m.failed.Load(),
	}
	if total := s.Published + s.Failed; total > 0 {
		s.AvgPublishDur = time.Duration(m.durationTotal.Load() / total)
	}
	return s
}
