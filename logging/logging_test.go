package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	off, err := ParseLevel("off")
	require.NoError(t, err)
	assert.Greater(t, off, slog.LevelError)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, true).With("figure", "overview")

	logger.Debug("hidden")
	logger.Info("Rendered figure", "files", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO: Rendered figure")
	assert.Contains(t, out, `"figure": "overview"`)
	assert.Contains(t, out, `"files": 2`)
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelWarn, false).Warn("careful", "n", 1)
	assert.Contains(t, buf.String(), "level=WARN msg=careful n=1")
}

// prettyFields decodes the JSON attribute block of a single pretty line.
func prettyFields(t *testing.T, out string) map[string]any {
	t.Helper()
	i := strings.Index(out, "{")
	require.GreaterOrEqual(t, i, 0, "no attributes in %q", out)
	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[i:]), &fields))
	return fields
}

func TestPrettyHandler_Groups(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, true).
		With("run", 1).
		WithGroup("render").
		With("figure", "overview")

	logger.Info("Rendered figure", "files", 2, slog.Group("size", "w", 24, "h", 16))

	want := map[string]any{
		"run": float64(1),
		"render": map[string]any{
			"figure": "overview",
			"files":  float64(2),
			"size":   map[string]any{"w": float64(24), "h": float64(16)},
		},
	}
	assert.Equal(t, want, prettyFields(t, buf.String()))
}

func TestPrettyHandler_EmptyGroup(t *testing.T) {
	color.NoColor = true
	var plain, bare bytes.Buffer
	New(&plain, slog.LevelInfo, true).WithGroup("").Info("plain", "n", 1)
	New(&bare, slog.LevelInfo, true).WithGroup("render").Info("bare")

	assert.Equal(t, map[string]any{"n": float64(1)}, prettyFields(t, plain.String()))
	assert.True(t, strings.HasSuffix(bare.String(), "INFO: bare\n"), "a group without attributes prints nothing")
}
