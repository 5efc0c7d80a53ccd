package metrics

const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
	DefaultNamespace                 = "reqscope"
)

// Config controls the two metrics endpoints. A nil address uses the default;
// an empty string disables that endpoint.
type Config struct {
	// SystemMetricsAddress serves Go runtime, process and build info
	// collectors.
	SystemMetricsAddress *string `yaml:"system_metrics_address" envconfig:"SYSTEM_ADDRESS"`

	// ApplicationMetricsAddress serves the request finalization, flush,
	// capture and delivery series recorded by Recorder.
	ApplicationMetricsAddress *string `yaml:"application_metrics_address" envconfig:"APPLICATION_ADDRESS"`

	// ServiceName is added as a constant "service" label to every series.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// Namespace prefixes every series name. Defaults to "reqscope".
	Namespace string `yaml:"namespace" envconfig:"NAMESPACE"`
}

// Ptr returns a pointer to s, for the address fields.
func Ptr(s string) *string {
	return &s
}
