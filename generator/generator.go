package generator

import (
	"context"
	"net"
)

type targetWriter interface {
	WriteTo(ctx context.Context, addr *net.UDPAddr, data []byte) error
}

// Generator is the interface for producing sample data.
type Generator interface {
	// Start starts the generator and sends data using the
	// provided target writer.
	Start(writer targetWriter) error

	// Stop stops the generator.
	Stop(ctx context.Context) error
}
