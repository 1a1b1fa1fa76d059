package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		server  ServerConfig
		wantErr bool
	}{
		{name: "zero-ok", server: ServerConfig{}, wantErr: false},
		{name: "default-port", server: ServerConfig{Port: DefaultControlPort}, wantErr: false},
		{name: "max-port", server: ServerConfig{Port: 65535}, wantErr: false},
		{name: "negative-port", server: ServerConfig{Port: -1}, wantErr: true},
		{name: "port-too-high", server: ServerConfig{Port: 65536}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.server.Validate()
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "server port validation failed")
				return
			}
			require.NoError(t, err)
		})
	}
}
