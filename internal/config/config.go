// Package config contains the top level configuration structures and logic
package config

// Config is the configuration for plotserver.
type Config struct {
	// Logging configuration for the logger
	Logging Logging `yaml:"logging,omitempty" mapstructure:"logging,omitempty"`
	// Server configuration for the control listener
	Server ServerConfig `yaml:"server,omitempty" mapstructure:"server,omitempty"`
	// Signal configuration for the sine generator
	Signal SignalConfig `yaml:"signal,omitempty" mapstructure:"signal,omitempty"`
	// Telemetry configuration for metrics
	Telemetry Telemetry `yaml:"telemetry,omitempty" mapstructure:"telemetry,omitempty"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	return nil
}

// NewConfig returns a new config
func NewConfig() *Config {
	return &Config{}
}

// ApplyDefaults applies default values to the configuration
func (c *Config) ApplyDefaults() {
	// Apply logging defaults
	if c.Logging.Type == "" {
		c.Logging.Type = LoggingTypeStdout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}

	// Apply server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultControlPort
	}

	// Apply signal defaults
	if c.Signal.Frequency == 0 {
		c.Signal.Frequency = DefaultSignalFrequency
	}
	if c.Signal.Rate == 0 {
		c.Signal.Rate = DefaultSignalRate
	}
	if c.Signal.Amplitude == 0 {
		c.Signal.Amplitude = DefaultSignalAmplitude
	}
	if c.Signal.Variable == "" {
		c.Signal.Variable = DefaultSignalVariable
	}
}
