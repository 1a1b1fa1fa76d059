package server

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	msgConnectPrefix    = "CONNECT:"
	msgDisconnect       = "DISCONNECT"
	msgDisconnectPrefix = "DISCONNECT:"
)

// handleMessage dispatches one control message. Unknown messages are
// silently ignored.
func (s *Server) handleMessage(raw string, from *net.UDPAddr) {
	msg := strings.TrimSpace(raw)

	s.logger.Debug("Control message received",
		zap.String("from", from.String()),
		zap.String("message", msg))

	switch {
	case strings.HasPrefix(msg, msgConnectPrefix):
		s.handleConnect(msg)
	case msg == msgDisconnect || strings.HasPrefix(msg, msgDisconnectPrefix):
		s.handleDisconnect(msg)
	}
}

// handleConnect processes "CONNECT:<ip>:<port>". Malformed messages are
// logged and dropped without a reply, leaving the endpoint untouched.
func (s *Server) handleConnect(msg string) {
	addr, err := parseTarget(msg)
	if err != nil {
		s.recordMalformed()
		s.logger.Warn("Invalid CONNECT message, expected CONNECT:<ip>:<port>",
			zap.String("message", msg),
			zap.Error(err))
		return
	}

	serverIP := outboundIP(addr.IP.String())
	ack := fmt.Sprintf("CONNECTED:%s:%d", serverIP, s.port)

	// The acknowledgement goes to the client's data port, from the data
	// socket. A failed ack does not prevent the endpoint update.
	if err := s.sendAck(addr, ack); err != nil {
		s.logger.Error("Failed to send CONNECTED acknowledgement",
			zap.String("target", addr.String()),
			zap.Error(err))
	} else {
		s.logger.Info("Client connected",
			zap.String("target", addr.String()),
			zap.String("ack", ack))
	}

	// Last-writer-wins: a repeated CONNECT simply replaces the endpoint.
	s.cell.Set(addr)

	s.connects.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "server"),
			),
		),
	)
}

// handleDisconnect processes "DISCONNECT" and "DISCONNECT:<ip>:<port>".
// The endpoint is cleared unconditionally; a notification is sent only
// when a target could be resolved, preferring the explicit address over
// the stored endpoint.
func (s *Server) handleDisconnect(msg string) {
	var target *net.UDPAddr
	if strings.HasPrefix(msg, msgDisconnectPrefix) {
		if addr, err := parseTarget(msg); err == nil {
			target = addr
		}
	}

	if target == nil {
		if addr, ok := s.cell.Get(); ok {
			target = addr
		}
	}

	if target != nil {
		serverIP := outboundIP(target.IP.String())
		bye := fmt.Sprintf("DISCONNECT:%s:%d", serverIP, s.port)

		if err := s.sendAck(target, bye); err != nil {
			s.logger.Error("Failed to send DISCONNECT acknowledgement",
				zap.String("target", target.String()),
				zap.Error(err))
		} else {
			s.logger.Info("Sent DISCONNECT acknowledgement",
				zap.String("target", target.String()))
		}
	}

	s.cell.Clear()
	s.logger.Info("Client disconnected, transmission paused")

	s.disconnects.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "server"),
			),
		),
	)
}

// sendAck writes a handshake acknowledgement from the data socket.
func (s *Server) sendAck(addr *net.UDPAddr, ack string) error {
	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()

	return s.data.WriteTo(ctx, addr, []byte(ack))
}

// parseTarget extracts the (ip, port) pair from a three-field control
// message such as "CONNECT:<ip>:<port>".
func parseTarget(msg string) (*net.UDPAddr, error) {
	parts := strings.Split(msg, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 colon-separated fields, got %d", len(parts))
	}

	host := strings.TrimSpace(parts[1])
	port, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", parts[2], err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("port %d out of range", port)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		// The client may declare a hostname instead of a literal IP.
		addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", host, err)
		}
		return addr, nil
	}

	return &net.UDPAddr{IP: ip, Port: port}, nil
}

// recordMalformed records metrics for malformed control messages
func (s *Server) recordMalformed() {
	s.malformedMsgs.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "server"),
			),
		),
	)
}
