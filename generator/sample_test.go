package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleMarshal(t *testing.T) {
	cases := []struct {
		name     string
		sample   Sample
		expected string
	}{
		{
			name:     "simple value",
			sample:   Sample{Variable: "sin", TimestampMS: 1700000000123, Value: 0.5},
			expected: ">sin:1700000000123:0.5|g\n0.5\n",
		},
		{
			name:     "negative value",
			sample:   Sample{Variable: "sin", TimestampMS: 42, Value: -1},
			expected: ">sin:42:-1|g\n-1\n",
		},
		{
			name:     "full precision",
			sample:   Sample{Variable: "wave", TimestampMS: 1, Value: 0.8414709848078965},
			expected: ">wave:1:0.8414709848078965|g\n0.8414709848078965\n",
		},
		{
			name:     "zero",
			sample:   Sample{Variable: "sin", TimestampMS: 0, Value: 0},
			expected: ">sin:0:0|g\n0\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, string(tc.sample.Marshal()))
		})
	}
}
