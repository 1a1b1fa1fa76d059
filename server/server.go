// Package server implements the UDP control listener that manages the
// one-client CONNECT/DISCONNECT handshake.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/lasecplot/plotserver/internal/endpoint"
	"github.com/lasecplot/plotserver/output"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	// readTimeout bounds a single receive so the stop signal is checked
	// at least this often
	readTimeout = 500 * time.Millisecond

	// readBufferSize is the receive buffer for control messages
	readBufferSize = 4096

	// ackTimeout bounds a handshake acknowledgement send
	ackTimeout = 5 * time.Second
)

// Server listens for CONNECT/DISCONNECT messages on the control port and
// maintains the shared endpoint cell accordingly.
type Server struct {
	logger *zap.Logger
	conn   *net.UDPConn
	port   int
	cell   *endpoint.Cell
	data   output.Writer

	wg     sync.WaitGroup
	stopCh chan struct{}

	// Metrics
	connects      metric.Int64Counter
	disconnects   metric.Int64Counter
	malformedMsgs metric.Int64Counter
}

// New creates a new control server bound to the given UDP port. A bind
// failure is fatal and propagates to the caller. Port 0 binds an
// ephemeral port, which tests rely on.
func New(logger *zap.Logger, port int, cell *endpoint.Cell, data output.Writer) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cell == nil {
		return nil, fmt.Errorf("endpoint cell cannot be nil")
	}
	if data == nil {
		return nil, fmt.Errorf("data writer cannot be nil")
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("bind control port %d: %w", port, err)
	}

	boundPort := conn.LocalAddr().(*net.UDPAddr).Port

	meter := otel.Meter("plotserver-server")

	connects, err := meter.Int64Counter(
		"plotserver.server.connects",
		metric.WithDescription("Total number of successful CONNECT messages"),
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create connects counter: %w", err)
	}

	disconnects, err := meter.Int64Counter(
		"plotserver.server.disconnects",
		metric.WithDescription("Total number of DISCONNECT messages"),
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create disconnects counter: %w", err)
	}

	malformedMsgs, err := meter.Int64Counter(
		"plotserver.server.malformed",
		metric.WithDescription("Total number of malformed control messages"),
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create malformed counter: %w", err)
	}

	return &Server{
		logger:        logger.Named("server"),
		conn:          conn,
		port:          boundPort,
		cell:          cell,
		data:          data,
		stopCh:        make(chan struct{}),
		connects:      connects,
		disconnects:   disconnects,
		malformedMsgs: malformedMsgs,
	}, nil
}

// ControlPort returns the port the control socket is bound to.
func (s *Server) ControlPort() int {
	return s.port
}

// Start starts the control receive loop.
func (s *Server) Start() error {
	s.logger.Info("Listening for CONNECT messages",
		zap.String("addr", s.conn.LocalAddr().String()))

	s.wg.Add(1)
	go s.controlLoop()

	return nil
}

// Stop signals the control loop to exit, closes the control socket and
// waits for the loop with a bounded wait. Stopping an already-stopped
// server socket is tolerated.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping control server")

	close(s.stopCh)
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn("Failed to close control socket", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Control server stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}
}

// controlLoop receives and dispatches control messages until stopped.
func (s *Server) controlLoop() {
	defer s.wg.Done()

	buf := make([]byte, readBufferSize)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		if err := s.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("Failed to set read deadline", zap.Error(err))
			continue
		}

		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				continue
			case errors.Is(err, net.ErrClosed):
				return
			case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNREFUSED):
				// A previous send elicited a destination-unreachable
				// response. Not fatal on a connectionless socket.
				s.logger.Warn("Connection reset on control socket", zap.Error(err))
				continue
			default:
				s.logger.Warn("Failed to read control socket", zap.Error(err))
				continue
			}
		}

		s.handleMessage(string(buf[:n]), addr)
	}
}
