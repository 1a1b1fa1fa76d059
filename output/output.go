package output

import (
	"context"
	"net"
)

// Writer can deliver payloads to arbitrary UDP endpoints. The target
// address is chosen per write because the active client can change (or
// disappear) at any time.
type Writer interface {
	// WriteTo writes the payload to the given endpoint.
	WriteTo(ctx context.Context, addr *net.UDPAddr, data []byte) error
}

// Output is the interface for the data-plane socket.
type Output interface {
	Writer

	// Stop stops the output.
	Stop(ctx context.Context) error
}
