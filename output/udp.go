package output

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// DefaultUDPWriteTimeout is the default timeout for writing data to UDP endpoints
const DefaultUDPWriteTimeout = 5 * time.Second

// UDP implements the Output interface on a single unconnected UDP socket.
// The same socket carries handshake acknowledgements and sample payloads,
// so the client sees one consistent source address.
type UDP struct {
	logger *zap.Logger
	conn   *net.UDPConn
}

// NewUDP creates a new UDP data socket bound to an ephemeral local port.
func NewUDP(logger *zap.Logger) (*UDP, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("bind data socket: %w", err)
	}

	udp := &UDP{
		logger: logger.Named("output-udp"),
		conn:   conn,
	}

	udp.logger.Info("Starting UDP output",
		zap.String("local_addr", conn.LocalAddr().String()),
	)

	return udp, nil
}

// WriteTo sends the payload to the given endpoint with a write timeout.
// If the provided context carries an earlier deadline, that deadline wins.
func (u *UDP) WriteTo(ctx context.Context, addr *net.UDPAddr, data []byte) error {
	if addr == nil {
		return fmt.Errorf("address cannot be nil")
	}

	deadline := time.Now().Add(DefaultUDPWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := u.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if _, err := u.conn.WriteToUDP(data, addr); err != nil {
		return fmt.Errorf("failed to write data to %s: %w", addr, err)
	}

	return nil
}

// LocalAddr returns the local address of the data socket.
func (u *UDP) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

// Stop closes the data socket. Closing an already-closed socket is not
// an error.
func (u *UDP) Stop(_ context.Context) error {
	u.logger.Info("Stopping UDP output")

	if err := u.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close data socket: %w", err)
	}

	u.logger.Info("UDP output stopped successfully")
	return nil
}
