// Package observability provides OpenTelemetry tracing and metrics plus
// structured logging for the symtab command line tools.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// AppMode identifies the command family that is running.
type AppMode string

const (
	// ModeCLI covers interactive queries against datasets.
	ModeCLI AppMode = "cli"
	// ModeBench is the benchmark runner.
	ModeBench AppMode = "bench"
	// ModeVerify is the randomized cross-check of tree implementations.
	ModeVerify AppMode = "verify"
)

const (
	defaultServiceName        = "symtab"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment, e.g. "ci" or "dev".
	Environment string

	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export; providers become no-op.
	OTLPEndpoint string

	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// DebugTrace forces 100% sampling and logs attributes dropped by the
	// span attribute filter.
	DebugTrace bool

	// SampleRatio is the parent-based trace sampling ratio in (0, 1].
	// Zero leaves sampling to OTEL_TRACES_SAMPLER.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps a level name (debug, info, warn, error) to an slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", name, err)
	}

	return level, nil
}

func (c Config) shutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSec <= 0 {
		return defaultShutdownTimeoutSec * time.Second
	}

	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// ParseOTLPHeaders parses the "key=value,key=value" form of
// OTEL_EXPORTER_OTLP_HEADERS, as stored in telemetry.headers. Entries
// without '=' are skipped. It returns nil when no entry parses.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for entry := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return headers
}
