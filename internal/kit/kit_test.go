package kit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeProjectConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return dir
}

func TestReadID(t *testing.T) {
	dir := writeProjectConfig(t, `
[env:esp32]
platform = espressif32

[data]
kitId = 3
`)

	id, err := ReadID(dir)
	require.NoError(t, err)
	require.Equal(t, 3, id)
}

func TestReadIDMissingFile(t *testing.T) {
	_, err := ReadID(t.TempDir())
	require.Error(t, err)
}

func TestReadIDMissingKey(t *testing.T) {
	dir := writeProjectConfig(t, `
[env:esp32]
platform = espressif32
`)

	_, err := ReadID(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "kitId not found")
}

func TestReadIDNotAnInteger(t *testing.T) {
	dir := writeProjectConfig(t, `
[data]
kitId = banana
`)

	_, err := ReadID(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an integer")
}

func TestReadIDNegative(t *testing.T) {
	dir := writeProjectConfig(t, `
[data]
kitId = -2
`)

	_, err := ReadID(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-negative")
}

func TestTarget(t *testing.T) {
	cases := []struct {
		id   int
		host string
		port int
	}{
		{id: 0, host: "iikit0.local", port: 47250},
		{id: 3, host: "iikit3.local", port: 47253},
		{id: 18, host: "iikit18.local", port: 47268},
	}

	for _, tc := range cases {
		host, port := Target(tc.id)
		require.Equal(t, tc.host, host)
		require.Equal(t, tc.port, port)
	}
}
