// Package kit derives the plotting target of a lab kit from its
// PlatformIO project configuration.
package kit

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	// ConfigFileName is the PlatformIO project configuration file
	ConfigFileName = "platformio.ini"

	// basePort is the port of kit 0; kit N listens on basePort+N
	basePort = 47250
)

// ReadID reads the integer kitId from the [data] section of the
// platformio.ini file in projectDir.
func ReadID(projectDir string) (int, error) {
	path := filepath.Join(projectDir, ConfigFileName)

	cfg, err := ini.Load(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	key, err := cfg.Section("data").GetKey("kitId")
	if err != nil {
		return 0, fmt.Errorf("kitId not found in [data] section of %s: %w", path, err)
	}

	id, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("kitId is not an integer: %w", err)
	}
	if id < 0 {
		return 0, fmt.Errorf("kitId must be non-negative, got %d", id)
	}

	return id, nil
}

// Target derives the kit's mDNS hostname and UDP port from its id.
// Kit 3 becomes ("iikit3.local", 47253).
func Target(id int) (string, int) {
	return fmt.Sprintf("iikit%d.local", id), basePort + id
}
