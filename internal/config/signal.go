package config

import (
	"errors"
	"fmt"
	"strings"
)

// Default values for the sine signal.
const (
	// DefaultSignalFrequency is the default sine frequency in Hz
	DefaultSignalFrequency = 1.0
	// DefaultSignalRate is the default send rate in samples per second
	DefaultSignalRate = 30.0
	// DefaultSignalAmplitude is the default sine amplitude
	DefaultSignalAmplitude = 1.0
	// DefaultSignalVariable is the default variable name tagged on each sample
	DefaultSignalVariable = "sin"
)

var (
	// errInvalidFrequency is returned when the sine frequency is not positive.
	errInvalidFrequency = errors.New("signal frequency must be positive")
	// errInvalidRate is returned when the send rate is not positive.
	errInvalidRate = errors.New("signal rate must be positive")
	// errInvalidVariable is returned when the variable name would break the
	// colon delimited wire format.
	errInvalidVariable = errors.New("signal variable must not contain ':' or whitespace")
)

// SignalConfig contains configuration for the generated sine signal.
type SignalConfig struct {
	// Frequency is the sine frequency in Hz
	Frequency float64 `yaml:"frequency,omitempty" mapstructure:"frequency,omitempty"`
	// Rate is the send rate in samples per second, clamped to [1, 200]
	// by the generator
	Rate float64 `yaml:"rate,omitempty" mapstructure:"rate,omitempty"`
	// Amplitude is the sine amplitude
	Amplitude float64 `yaml:"amplitude,omitempty" mapstructure:"amplitude,omitempty"`
	// Variable is the name tagged on each sample line
	Variable string `yaml:"variable,omitempty" mapstructure:"variable,omitempty"`
	// Quiet disables the once-per-second transmit status log
	Quiet bool `yaml:"quiet,omitempty" mapstructure:"quiet,omitempty"`
}

// Validate validates the signal configuration.
func (c *SignalConfig) Validate() error {
	if c.Frequency < 0 {
		return fmt.Errorf("%w: got %v", errInvalidFrequency, c.Frequency)
	}

	if c.Rate < 0 {
		return fmt.Errorf("%w: got %v", errInvalidRate, c.Rate)
	}

	if strings.ContainsAny(c.Variable, ": \t\n") {
		return fmt.Errorf("%w: got %q", errInvalidVariable, c.Variable)
	}

	return nil
}
