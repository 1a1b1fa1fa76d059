package config

import (
	"fmt"
)

// DefaultControlPort is the default UDP port for CONNECT/DISCONNECT messages
const DefaultControlPort = 47268

// ServerConfig contains configuration for the UDP control listener
type ServerConfig struct {
	// Port is the UDP port CONNECT/DISCONNECT messages are received on
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	// Zero means "use default", applied by ApplyDefaults
	if c.Port == 0 {
		return nil
	}

	if err := ValidatePort(c.Port); err != nil {
		return fmt.Errorf("server port validation failed: %w", err)
	}

	return nil
}
