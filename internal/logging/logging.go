// Package logging contains the logging logic for plotserver
package logging

import (
	"fmt"
	"os"
	"strings"

	serverconfig "github.com/lasecplot/plotserver/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new Logger for the specified config.
// If the config is empty, it defaults to stdout at info level.
func NewLogger(cfg serverconfig.Logging) (*zap.Logger, error) {
	level := parseZapLevel(cfg.Level)

	// Only stdout supported for now. Default to stdout when empty.
	output := strings.TrimSpace(strings.ToLower(cfg.Type))
	if output == "" {
		output = serverconfig.LoggingTypeStdout
	}
	if output != serverconfig.LoggingTypeStdout {
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}

	core := newStdoutCore(level)
	return zap.New(core), nil
}

func parseZapLevel(level serverconfig.LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case string(serverconfig.LogLevelDebug):
		return zapcore.DebugLevel
	case string(serverconfig.LogLevelWarn):
		return zapcore.WarnLevel
	case string(serverconfig.LogLevelError):
		return zapcore.ErrorLevel
	case string(serverconfig.LogLevelInfo):
		fallthrough
	case "":
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}

func newStdoutCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stdout), level)
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
