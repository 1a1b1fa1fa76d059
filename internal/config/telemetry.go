package config

// Telemetry contains configuration for metrics collection.
type Telemetry struct {
	// Enabled starts the Prometheus metrics exporter when true
	Enabled bool `yaml:"enabled,omitempty" mapstructure:"enabled,omitempty"`
}
