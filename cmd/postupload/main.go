// Package main implements the PlatformIO post-upload hook: after a
// firmware flash it notifies the plotting extension which kit to connect
// to, by sending a single CONNECT datagram.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/lasecplot/plotserver/internal/config"
	"github.com/lasecplot/plotserver/internal/kit"
	"github.com/lasecplot/plotserver/internal/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const writeTimeout = 250 * time.Millisecond

func main() {
	flags := pflag.NewFlagSet("postupload", pflag.ExitOnError)
	projectDir := flags.String("project-dir", ".", "PlatformIO project directory containing platformio.ini")
	controlIP := flags.String("control-ip", "127.0.0.1", "IP address the plotting extension listens on")
	controlPort := flags.Int("control-port", config.DefaultControlPort, "control port advertised in the CONNECT message")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Failed to parse flags: %s", err.Error())
		os.Exit(1)
	}

	logger, err := logging.NewLogger(config.Logging{})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %s", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := config.ValidateHost(*controlIP); err != nil {
		logger.Error("Invalid control IP", zap.Error(err))
		os.Exit(1)
	}

	id, err := kit.ReadID(*projectDir)
	if err != nil {
		logger.Error("Failed to read kit id", zap.Error(err))
		os.Exit(1)
	}

	host, port := kit.Target(id)
	msg := fmt.Sprintf("CONNECT %s:%d", host, *controlPort)

	if err := sendConnect(*controlIP, port, msg); err != nil {
		// The extension may simply not be running. One shot, no retry.
		logger.Warn("Failed to send CONNECT notification", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("CONNECT notification sent",
		zap.String("message", msg),
		zap.String("target", net.JoinHostPort(*controlIP, strconv.Itoa(port))))
}

// sendConnect fires one UDP datagram at the plotting extension.
func sendConnect(ip string, port int, msg string) error {
	conn, err := net.Dial("udp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("dial %s:%d: %w", ip, port, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	if _, err := conn.Write([]byte(msg)); err != nil {
		return fmt.Errorf("send CONNECT: %w", err)
	}

	return nil
}
