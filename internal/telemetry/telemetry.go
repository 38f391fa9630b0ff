// Package telemetry configures OpenTelemetry tracing for the application.
//
// Tracing is opt-in: without an endpoint, or with LOGICALVIEW_OTEL_ENABLED
// set to false, Setup installs nothing and returns a no-op shutdown.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrInvalidSampleRatio is returned for a sample ratio outside [0, 1].
var ErrInvalidSampleRatio = errors.New("telemetry: sample ratio must be between 0 and 1")

// Config holds the tracing settings read from the environment.
type Config struct {
	Enabled     bool    `env:"LOGICALVIEW_OTEL_ENABLED" envDefault:"true"`
	Endpoint    string  `env:"LOGICALVIEW_OTEL_ENDPOINT"`
	ServiceName string  `env:"LOGICALVIEW_OTEL_SERVICE_NAME" envDefault:"logicalview"`
	SampleRatio float64 `env:"LOGICALVIEW_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse telemetry env: %w", err)
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidSampleRatio, cfg.SampleRatio)
	}
	return cfg, nil
}

// Active reports whether Setup would install a tracer provider.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}

// Setup installs a global tracer provider exporting spans over OTLP/HTTP.
// The returned shutdown flushes pending spans and should be deferred.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return noop, fmt.Errorf("creating trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
