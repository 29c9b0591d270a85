package kafka_config

import "time"

const (
	// Empty means Kafka is disabled and webhook events are only logged.
	DefaultKafkaBrokers = ""

	DefaultWebhookTopic = "webhook-events"
	DefaultDLQTopic     = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)
