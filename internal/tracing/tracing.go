// Package tracing sets up OpenTelemetry for draft and review requests.
//
// Tracing is off unless OTEL_ENABLED=true. When off, the global provider is
// left as the no-op default and spans started by services cost nothing.
package tracing

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/custodia-labs/reportdraft/internal/logger"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "reportdraft"

// Environment variables read by ConfigFromEnv.
const (
	EnvEnabled  = "OTEL_ENABLED"
	EnvEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

const defaultEndpoint = "localhost:4318"

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

// Config controls the exporter.
type Config struct {
	Enabled  bool
	Endpoint string
	Version  string
}

// ConfigFromEnv reads the OTEL_* variables.
func ConfigFromEnv(version string) Config {
	cfg := Config{
		Enabled:  strings.EqualFold(os.Getenv(EnvEnabled), "true"),
		Endpoint: os.Getenv(EnvEndpoint),
		Version:  version,
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return cfg
}

// Init installs a batching OTLP/HTTP provider when cfg.Enabled is set.
// The returned function is always safe to call.
func Init(ctx context.Context, cfg Config) ShutdownFunc {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		logger.Debug("Tracing disabled (set %s=true to enable)", EnvEnabled)
		return noop
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("Failed to create OTLP exporter: %v (tracing disabled)", err)
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		)),
	)
	otel.SetTracerProvider(tp)
	logger.Info("Tracing enabled (endpoint: %s)", endpoint)

	return tp.Shutdown
}
