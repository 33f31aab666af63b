// Package observability sets up OpenTelemetry tracing for AFS connectors.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ajitpratap0/afs-connector/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Exporter names.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	ServiceName  string        `yaml:"service_name" json:"service_name"`
	Environment  string        `yaml:"environment" json:"environment"`
	SamplingRate float64       `yaml:"sampling_rate" json:"sampling_rate"`
	Exporter     string        `yaml:"exporter" json:"exporter"` // "stdout", "none"
	PrettyPrint  bool          `yaml:"pretty_print" json:"pretty_print"`
	BatchTimeout time.Duration `yaml:"batch_timeout" json:"batch_timeout"`
}

// DefaultTracingConfig returns a disabled stdout configuration sampling
// every span once enabled.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:  "afs-connector",
		Environment:  "development",
		SamplingRate: 1.0,
		Exporter:     ExporterStdout,
		PrettyPrint:  true,
		BatchTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration.
func (c TracingConfig) Validate() error {
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be within [0, 1], got %v", c.SamplingRate)
	}
	switch c.Exporter {
	case "", ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("unknown trace exporter %q", c.Exporter)
	}
	return nil
}

// Tracing owns the tracer provider installed by InitTracing.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// Provider returns the installed tracer provider, or nil when tracing is
// disabled.
func (t *Tracing) Provider() *sdktrace.TracerProvider {
	if t == nil {
		return nil
	}
	return t.provider
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// InitTracing installs a global tracer provider exporting to w (stdout when
// w is nil) and the W3C trace context propagator. When tracing is disabled
// nothing is installed and the returned Tracing is a no-op.
func InitTracing(ctx context.Context, config TracingConfig, w io.Writer) (*Tracing, error) {
	if !config.Enabled {
		return &Tracing{}, nil
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(version.Version),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}

	if config.Exporter != ExporterNone {
		if w == nil {
			w = os.Stdout
		}
		exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
		if config.PrettyPrint {
			exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err := stdouttrace.New(exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(config.BatchTimeout)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracing{provider: tp}, nil
}
