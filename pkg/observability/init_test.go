package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/symtab/pkg/observability"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/bst"
)

func TestInit_WithoutEndpointRecordsNothing(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeBench
	cfg.LogOutput = &logs

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "symtab.bench")
	assert.False(t, span.IsRecording())

	tm, err := observability.NewTableMetrics(providers.Meter)
	require.NoError(t, err)

	table := observability.Instrument(ctx, bst.New[int, string](), tm, "bst")
	table.Add(1, "a")
	assert.Equal(t, 1, table.Rank(2))

	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_LoggerCarriesCommandMode(t *testing.T) {
	t.Parallel()

	modes := []observability.AppMode{observability.ModeCLI, observability.ModeBench, observability.ModeVerify}

	for _, mode := range modes {
		var logs bytes.Buffer

		cfg := observability.DefaultConfig()
		cfg.Mode = mode
		cfg.Environment = "ci"
		cfg.LogJSON = true
		cfg.LogOutput = &logs

		providers, err := observability.Init(cfg)
		require.NoError(t, err)

		providers.Logger.InfoContext(context.Background(), "table loaded", "impl", "llrb", "pairs", 4)

		var record map[string]any

		require.NoError(t, json.Unmarshal(logs.Bytes(), &record), mode)
		assert.Equal(t, string(mode), record["mode"])
		assert.Equal(t, "symtab", record["service"])
		assert.Equal(t, "ci", record["env"])
		assert.Equal(t, "llrb", record["impl"])
		assert.InDelta(t, 4.0, record["pairs"], 0)
	}
}

func TestInit_LogLevel(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeVerify
	cfg.LogOutput = &logs

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	providers.Logger.Debug("crosscheck progress", "step", 1000)
	providers.Logger.Warn("observability shutdown failed")

	out := logs.String()
	assert.NotContains(t, out, "crosscheck progress")
	assert.Contains(t, out, "observability shutdown failed")
	assert.Contains(t, out, "mode=verify")
	assert.Equal(t, 1, strings.Count(out, "\n"))

	cfg.LogLevel = slog.LevelDebug
	logs.Reset()

	providers, err = observability.Init(cfg)
	require.NoError(t, err)

	providers.Logger.Debug("crosscheck progress", "step", 1000)
	assert.Contains(t, logs.String(), "step=1000")
}

func TestBuildResource(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeVerify
	cfg.ServiceVersion = "v0.3.0"
	cfg.Environment = "ci"

	res, err := observability.BuildResource(cfg)
	require.NoError(t, err)

	attrs := make(map[string]string)
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "symtab", attrs["service.name"])
	assert.Equal(t, "v0.3.0", attrs["service.version"])
	assert.Equal(t, "ci", attrs["deployment.environment"])
	assert.Equal(t, "verify", attrs["symtab.mode"])
}

func TestBuildResource_OmitsEmptyVersion(t *testing.T) {
	t.Parallel()

	res, err := observability.BuildResource(observability.DefaultConfig())
	require.NoError(t, err)

	for _, kv := range res.Attributes() {
		assert.NotEqual(t, "service.version", string(kv.Key))
		assert.NotEqual(t, "deployment.environment", string(kv.Key))
	}
}

// The environment sampler is read by the SDK, so these tests cannot run in
// parallel.

func TestSampler_EnvironmentAppliesWithoutConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")

	assert.False(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestSampler_DebugTraceOverridesEnvironment(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")

	cfg := observability.DefaultConfig()
	cfg.DebugTrace = true

	assert.True(t, observability.RootSpanSampled(cfg))
}

func TestSampler_ConfigRatioOverridesEnvironment(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")

	cfg := observability.DefaultConfig()
	cfg.SampleRatio = 1

	assert.True(t, observability.RootSpanSampled(cfg))
}

func TestSampler_DefaultSamplesRootSpans(t *testing.T) {
	t.Parallel()

	assert.True(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want map[string]string
	}{
		{"", nil},
		{"authorization=Bearer abc", map[string]string{"authorization": "Bearer abc"}},
		{"x-team = trees , x-env=ci", map[string]string{"x-team": "trees", "x-env": "ci"}},
		{"token=a=b", map[string]string{"token": "a=b"}},
		{"garbage,,", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.raw), tt.raw)
	}
}
