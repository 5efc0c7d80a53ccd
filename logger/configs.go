package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the structured logger.
type Config struct {
	// Level is the minimum level written: "debug", "info", "warning" or
	// "error". Anything else means "info".
	Level string `yaml:"level" envconfig:"LEVEL"`

	// Encoding is "json" (default) or "console".
	Encoding string `yaml:"encoding" envconfig:"ENCODING"`

	// EnableTracing adds trace_id, span_id and transaction fields to the
	// ...WithContext variants when the context carries a request span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// CallerSkip is the number of wrapper frames skipped when reporting the
	// caller. 0 means 1, which is right when calling LoggerClient directly.
	CallerSkip int `yaml:"caller_skip" envconfig:"CALLER_SKIP"`
}
