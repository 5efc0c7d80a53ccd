package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aalemi-dev/reqscope/client"
	"github.com/aalemi-dev/reqscope/instrument"
	"github.com/aalemi-dev/reqscope/logger"
	"github.com/aalemi-dev/reqscope/metrics"
	"github.com/aalemi-dev/reqscope/tracing"
	"github.com/aalemi-dev/reqscope/transport"
)

const (
	// EnvPrefix prefixes every environment override, e.g.
	// REQSCOPE_TRANSPORT_KIND or REQSCOPE_INSTRUMENT_FLUSH_TIMEOUT.
	EnvPrefix = "REQSCOPE"

	// PathEnv names the variable FXModule reads the YAML path from.
	PathEnv = "REQSCOPE_CONFIG"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates the configuration of every package.
type Config struct {
	Logger     logger.Config     `yaml:"logger" envconfig:"LOGGER"`
	Client     client.Config     `yaml:"client" envconfig:"CLIENT"`
	Transport  transport.Config  `yaml:"transport" envconfig:"TRANSPORT"`
	Instrument instrument.Config `yaml:"instrument" envconfig:"INSTRUMENT"`
	Metrics    metrics.Config    `yaml:"metrics" envconfig:"METRICS"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Logger: logger.Config{
			Level:         logger.Info,
			Encoding:      "json",
			EnableTracing: true,
		},
		Client: client.Config{
			EnableTracing:    true,
			TracesSampleRate: client.SampleRate(1),
		},
		Transport: transport.Config{
			Kind:           transport.KindLog,
			QueueSize:      transport.DefaultQueueSize,
			BatchSize:      transport.DefaultBatchSize,
			DeliverTimeout: transport.DefaultDeliverTimeout,
			Kafka:          transport.KafkaConfig{Topic: transport.DefaultKafkaTopic},
		},
		Instrument: instrument.Config{
			FlushTimeout: instrument.DefaultFlushTimeout,
			FinalizeMode: instrument.Blocking,
			TraceHeader:  tracing.DefaultTraceHeader,
		},
		Metrics: metrics.Config{
			Namespace: metrics.DefaultNamespace,
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then applies REQSCOPE_* environment variables. Keys absent from
// the file and the environment keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}
