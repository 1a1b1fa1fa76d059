package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lasecplot/plotserver/generator"
	"github.com/lasecplot/plotserver/output"
	"github.com/lasecplot/plotserver/server"
	"go.uber.org/zap"
)

type Service struct {
	Logger    *zap.Logger
	Server    *server.Server
	Generator generator.Generator
	Output    output.Output
}

func New(logger *zap.Logger, srv *server.Server, gen generator.Generator, out output.Output) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if srv == nil {
		return nil, fmt.Errorf("server cannot be nil")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	return &Service{
		Logger:    logger,
		Server:    srv,
		Generator: gen,
		Output:    out,
	}, nil
}

// Start starts the service: the transmitter first, then the control loop,
// so a CONNECT arriving immediately after bind finds a running transmitter.
func (s *Service) Start() error {
	if err := s.Generator.Start(s.Output); err != nil {
		return fmt.Errorf("start generator: %w", err)
	}

	return s.Server.Start()
}

// Stop stops the service. Stop will block for up to 30 seconds.
// If a component does not stop within the timeout, an error will
// be returned and the program can exit.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Server.Stop(ctx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}

	if err := s.Generator.Stop(ctx); err != nil {
		return fmt.Errorf("stop generator: %w", err)
	}

	if err := s.Output.Stop(ctx); err != nil {
		return fmt.Errorf("stop output: %w", err)
	}

	return nil
}
