// Package main is the main package for the plotserver sine-stream server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lasecplot/plotserver/generator"
	"github.com/lasecplot/plotserver/internal/config"
	"github.com/lasecplot/plotserver/internal/endpoint"
	"github.com/lasecplot/plotserver/internal/logging"
	"github.com/lasecplot/plotserver/internal/service"
	"github.com/lasecplot/plotserver/internal/telemetry/metrics"
	"github.com/lasecplot/plotserver/output"
	"github.com/lasecplot/plotserver/server"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// Bind overrides to flags and environment variables
	flags := pflag.NewFlagSet("plotserver", pflag.ExitOnError)
	for _, override := range config.DefaultOverrides() {
		if err := override.Bind(flags); err != nil {
			fmt.Printf("Failed to bind override %s: %s", override.Field, err.Error())
			os.Exit(1)
		}
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Failed to parse flags: %s", err.Error())
		os.Exit(1)
	}

	// Configure Viper to handle env overrides
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfg := config.NewConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Printf("Failed to unmarshal config: %s", err.Error())
		os.Exit(1)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Failed to validate config: %s", err.Error())
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %s", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("plotserver started")

	// Create signal context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen for OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()
	}()

	// Start the metrics exporter before any instrument is created
	if cfg.Telemetry.Enabled {
		prom, err := metrics.NewPrometheus()
		if err != nil {
			logger.Error("Failed to create metrics exporter", zap.Error(err))
			os.Exit(1)
		}
		if err := prom.Start(ctx); err != nil {
			logger.Error("Failed to start metrics exporter", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := prom.Shutdown(context.Background()); err != nil {
				logger.Error("Failed to shut down metrics exporter", zap.Error(err))
			}
		}()
	}

	// The endpoint cell is the single piece of state shared by the
	// control handler and the transmitter.
	cell := endpoint.NewCell()

	outputInstance, err := output.NewUDP(logger)
	if err != nil {
		logger.Error("Failed to create UDP output", zap.Error(err))
		os.Exit(1)
	}

	generatorInstance, err := generator.NewSineGenerator(
		logger,
		cell,
		cfg.Signal.Frequency,
		cfg.Signal.Rate,
		cfg.Signal.Amplitude,
		cfg.Signal.Variable,
		cfg.Signal.Quiet,
	)
	if err != nil {
		logger.Error("Failed to create sine generator", zap.Error(err))
		os.Exit(1)
	}

	serverInstance, err := server.New(logger, cfg.Server.Port, cell, outputInstance)
	if err != nil {
		logger.Error("Failed to create control server", zap.Error(err))
		os.Exit(1)
	}

	service, err := service.New(logger, serverInstance, generatorInstance, outputInstance)
	if err != nil {
		logger.Error("Failed to create service", zap.Error(err))
		os.Exit(1)
	}

	if err := service.Start(); err != nil {
		logger.Error("Failed to start service", zap.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()

	if err := service.Stop(); err != nil {
		logger.Error("Failed to stop service", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("plotserver shutdown complete")
}
