// Package telemetry sets up logging and optional trace export for both
// commands.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// NewLogger returns a text logger writing to w at the named level. Unknown
// levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Telemetry holds the installed tracer provider. The zero value is the
// global no-op provider and shuts down cleanly.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
}

// Enabled reports whether spans are being exported.
func (t Telemetry) Enabled() bool {
	return t.TracerProvider != nil
}

// Shutdown flushes pending spans.
func (t Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	var errs []error
	if err := t.TracerProvider.ForceFlush(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Setup installs an OTLP/HTTP trace exporter when endpoint is set. With no
// endpoint the global provider stays a no-op and spans cost nothing.
func Setup(ctx context.Context, serviceName, endpoint string, logger *slog.Logger) (Telemetry, error) {
	if endpoint == "" {
		logger.Debug("trace export disabled")
		return Telemetry{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return Telemetry{}, fmt.Errorf("build resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return Telemetry{}, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	logger.Info("tracer export initialized", "type", "http", "endpoint", endpoint)
	return Telemetry{TracerProvider: tp}, nil
}
