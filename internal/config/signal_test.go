package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignalConfigValidate(t *testing.T) {
	cases := []struct {
		name     string
		signal   SignalConfig
		expected error
	}{
		{name: "empty-ok", signal: SignalConfig{}, expected: nil},
		{
			name: "valid",
			signal: SignalConfig{
				Frequency: 1.0,
				Rate:      30.0,
				Amplitude: 1.0,
				Variable:  "sin",
			},
			expected: nil,
		},
		{
			name:     "negative-frequency",
			signal:   SignalConfig{Frequency: -1.0},
			expected: errInvalidFrequency,
		},
		{
			name:     "negative-rate",
			signal:   SignalConfig{Rate: -5.0},
			expected: errInvalidRate,
		},
		{
			name:     "variable-with-colon",
			signal:   SignalConfig{Variable: "a:b"},
			expected: errInvalidVariable,
		},
		{
			name:     "variable-with-space",
			signal:   SignalConfig{Variable: "a b"},
			expected: errInvalidVariable,
		},
		{
			name:     "high-rate-ok",
			signal:   SignalConfig{Rate: 1000.0},
			expected: nil, // clamped by the generator, not rejected
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.signal.Validate()
			if tc.expected == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.expected))
		})
	}
}
