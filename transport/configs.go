package transport

import (
	"context"
	"time"
)

// Deliverer kinds accepted by Config.Kind.
const (
	KindHTTP   = "http"
	KindOTLP   = "otlp"
	KindKafka  = "kafka"
	KindLog    = "log"
	KindMemory = "memory"
)

const (
	DefaultQueueSize      = 1000
	DefaultBatchSize      = 50
	DefaultDeliverTimeout = 5 * time.Second
	DefaultKafkaTopic     = "reqscope-events"
)

// Config selects the deliverer and sizes the event queue.
type Config struct {
	// Kind is one of "http", "otlp", "kafka", "log" or "memory".
	Kind string `yaml:"kind" envconfig:"KIND"`

	// QueueSize bounds the number of events waiting for delivery. Events
	// sent to a full queue are dropped.
	QueueSize int `yaml:"queue_size" envconfig:"QUEUE_SIZE"`

	// BatchSize caps the number of events handed to the deliverer at once.
	BatchSize int `yaml:"batch_size" envconfig:"BATCH_SIZE"`

	// DeliverTimeout bounds a single delivery call.
	DeliverTimeout time.Duration `yaml:"deliver_timeout" envconfig:"DELIVER_TIMEOUT"`

	HTTP  HTTPConfig  `yaml:"http"`
	OTLP  OTLPConfig  `yaml:"otlp"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// HTTPConfig configures delivery to an HTTP ingestion endpoint.
type HTTPConfig struct {
	// Endpoint receives a POST with a JSON envelope per batch.
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`

	// Headers are added to every request, e.g. an auth token.
	Headers map[string]string `yaml:"headers" envconfig:"HEADERS"`

	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// OTLPConfig configures export of transactions as OpenTelemetry spans.
type OTLPConfig struct {
	// Endpoint is host:port of the collector. Empty uses the exporter's
	// environment defaults (OTEL_EXPORTER_OTLP_ENDPOINT).
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`

	Insecure bool `yaml:"insecure" envconfig:"INSECURE"`

	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// KafkaConfig configures publishing events to a Kafka topic.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" envconfig:"BROKERS"`
	Topic   string   `yaml:"topic" envconfig:"TOPIC"`

	// RequiredAcks: 0 none, 1 leader, -1 all in-sync replicas.
	RequiredAcks int `yaml:"required_acks" envconfig:"REQUIRED_ACKS"`

	MaxAttempts  int           `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`

	// CompressionCodec is "gzip", "snappy", "lz4", "zstd" or empty.
	CompressionCodec string `yaml:"compression_codec" envconfig:"COMPRESSION_CODEC"`
}

// Logger is the logging API the transport reports through.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.DeliverTimeout <= 0 {
		c.DeliverTimeout = DefaultDeliverTimeout
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}
	return c
}
