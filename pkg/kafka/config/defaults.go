package kafka_config

import "time"

const (
	DefaultKafkaBrokers  = "localhost:9092"
	DefaultKafkaClientID = "assetshare-dashboard"

	// Invalidation events are small and latency matters more than batching.
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = 1
	DefaultProducerCompression  = "snappy"

	DefaultConsumerStartOffset    = -1 // newest: a fresh instance starts with an empty cache
	DefaultConsumerMinBytes       = 1
	DefaultConsumerMaxBytes       = 1 * 1024 * 1024
	DefaultConsumerMaxWait        = 250 * time.Millisecond
	DefaultConsumerCommitInterval = 1 * time.Second
	DefaultConsumerMaxRetries     = 2
	DefaultConsumerGroupPrefix    = "assetshare-dashboard"
)
