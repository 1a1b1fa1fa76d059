package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/lasecplot/plotserver/internal/endpoint"
	"github.com/lasecplot/plotserver/internal/workermanager"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	// MinSendRate is the lowest accepted send rate in samples per second
	MinSendRate = 1.0

	// MaxSendRate is the highest accepted send rate in samples per second
	MaxSendRate = 200.0

	// idlePoll is how long the transmitter waits between endpoint checks
	// while no client is connected
	idlePoll = 50 * time.Millisecond

	// sendFailurePause is how long the transmitter waits after a failed
	// send before attempting the next sample
	sendFailurePause = 200 * time.Millisecond

	// rateSlack is subtracted from the per-sample hold so formatting and
	// send time do not push the observed rate below the configured one
	rateSlack = 1 * time.Millisecond

	// statsInterval is how often the transmit status log is emitted
	statsInterval = 1 * time.Second

	// writeTimeout bounds a single sample send
	writeTimeout = 5 * time.Second
)

// SineGenerator streams timestamped sine-wave samples to the active
// endpoint. While the endpoint cell is empty, no samples are generated.
type SineGenerator struct {
	logger    *zap.Logger
	cell      *endpoint.Cell
	frequency float64
	rate      float64
	amplitude float64
	variable  string
	quiet     bool

	writer        targetWriter
	start         time.Time
	workerManager *workermanager.WorkerManager
	meter         metric.Meter

	// Metrics
	samplesSent metric.Int64Counter
	sendErrors  metric.Int64Counter
}

// NewSineGenerator creates a new sine generator. The send rate is clamped
// to [MinSendRate, MaxSendRate].
func NewSineGenerator(logger *zap.Logger, cell *endpoint.Cell, frequency, rate, amplitude float64, variable string, quiet bool) (*SineGenerator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cell == nil {
		return nil, fmt.Errorf("endpoint cell cannot be nil")
	}
	if frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %v", frequency)
	}
	if variable == "" {
		return nil, fmt.Errorf("variable cannot be empty")
	}

	rate = math.Min(math.Max(rate, MinSendRate), MaxSendRate)

	meter := otel.Meter("plotserver-generator")

	samplesSent, err := meter.Int64Counter(
		"plotserver.generator.samples.sent",
		metric.WithDescription("Total number of samples sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("create samples sent counter: %w", err)
	}

	sendErrors, err := meter.Int64Counter(
		"plotserver.generator.send.errors",
		metric.WithDescription("Total number of sample send errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("create send errors counter: %w", err)
	}

	return &SineGenerator{
		logger:      logger.Named("generator-sine"),
		cell:        cell,
		frequency:   frequency,
		rate:        rate,
		amplitude:   amplitude,
		variable:    variable,
		quiet:       quiet,
		meter:       meter,
		samplesSent: samplesSent,
		sendErrors:  sendErrors,
	}, nil
}

// Rate returns the effective send rate after clamping.
func (g *SineGenerator) Rate() float64 {
	return g.rate
}

// Start starts the transmit worker. Elapsed time for the sine argument is
// measured from this call.
func (g *SineGenerator) Start(writer targetWriter) error {
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	g.logger.Info("Starting sine generator",
		zap.Float64("frequency_hz", g.frequency),
		zap.Float64("rate_hz", g.rate),
		zap.Float64("amplitude", g.amplitude),
		zap.String("variable", g.variable))

	g.writer = writer
	g.start = time.Now()
	g.workerManager = workermanager.NewWorkerManager(g.logger, 1, g.txWorker)
	g.workerManager.Start()

	return nil
}

// Stop stops the sine generator with a bounded wait.
// This function expects to be called exactly once, after Start.
func (g *SineGenerator) Stop(ctx context.Context) error {
	g.logger.Info("Stopping sine generator")

	if g.workerManager == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		g.workerManager.Stop()
		close(done)
	}()

	select {
	case <-done:
		g.logger.Info("Transmit worker stopped gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}
}

// txWorker is the transmit loop. It runs under the worker manager: a
// closed data socket makes it return so the manager can decide whether
// the generator is shutting down or the socket must be reopened upstream.
func (g *SineGenerator) txWorker(ctx context.Context, id int) {
	g.logger.Debug("Starting transmit worker", zap.Int("worker_id", id))

	period := time.Duration(float64(time.Second) / g.rate)
	sent := 0
	lastStats := time.Now()

	for {
		select {
		case <-ctx.Done():
			g.logger.Debug("Transmit worker stopping", zap.Int("worker_id", id))
			return
		default:
		}

		addr, ok := g.cell.Get()
		if !ok {
			// Nobody connected yet, just wait a little.
			sleepCtx(ctx, idlePoll)
			continue
		}

		sample := g.generate()
		if err := g.send(ctx, addr, sample); err != nil {
			g.recordSendError(err)
			g.logger.Error("Failed to send sample",
				zap.String("target", addr.String()),
				zap.Error(err))

			if errors.Is(err, net.ErrClosed) {
				return
			}

			// The failed sample is not retried.
			sleepCtx(ctx, sendFailurePause)
			continue
		}

		sent++
		g.samplesSent.Add(context.Background(), 1,
			metric.WithAttributeSet(
				attribute.NewSet(
					attribute.String("component", "generator_sine"),
				),
			),
		)

		if !g.quiet {
			if elapsed := time.Since(lastStats); elapsed >= statsInterval {
				g.logger.Info("Transmit status",
					zap.String("target", addr.String()),
					zap.Float64("observed_rate_hz", float64(sent)/elapsed.Seconds()),
					zap.Int64("last_timestamp_ms", sample.TimestampMS))
				sent = 0
				lastStats = time.Now()
			}
		}

		// Hold the configured rate. Each tick reads the clock fresh, no
		// correction for drift across iterations.
		if hold := period - rateSlack; hold > 0 {
			sleepCtx(ctx, hold)
		}
	}
}

// generate computes the next sample from wall-clock time.
func (g *SineGenerator) generate() Sample {
	t := time.Since(g.start).Seconds()
	return Sample{
		Variable:    g.variable,
		TimestampMS: time.Now().UnixMilli(),
		Value:       g.amplitude * math.Sin(2*math.Pi*g.frequency*t),
	}
}

// send writes one sample to the endpoint with a bounded timeout.
func (g *SineGenerator) send(ctx context.Context, addr *net.UDPAddr, sample Sample) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return g.writer.WriteTo(wctx, addr, sample.Marshal())
}

// recordSendError records metrics for send errors
func (g *SineGenerator) recordSendError(err error) {
	errorType := "unknown"
	if errors.Is(err, net.ErrClosed) {
		errorType = "closed"
	} else if errors.Is(err, context.DeadlineExceeded) {
		errorType = "timeout"
	}

	g.sendErrors.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "generator_sine"),
				attribute.String("error_type", errorType),
			),
		),
	)
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
