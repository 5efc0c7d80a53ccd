// Package config loads the configuration of every reqscope package from an
// optional YAML file and REQSCOPE_* environment variables.
//
// A file mirrors the Config sections:
//
//	logger:
//	  level: debug
//	transport:
//	  kind: http
//	  http:
//	    endpoint: https://ingest.example.com/api/events
//	instrument:
//	  flush_timeout: 1s
//
// Environment variables take precedence over the file:
//
//	REQSCOPE_TRANSPORT_KIND=kafka
//	REQSCOPE_TRANSPORT_KAFKA_BROKERS=broker-1:9092,broker-2:9092
//	REQSCOPE_INSTRUMENT_FINALIZE_MODE=detached
package config
