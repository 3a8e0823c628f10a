package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "output", c.OutputDir)
	assert.Equal(t, []string{"png"}, c.Formats)
	assert.Equal(t, 100.0, c.DPI)
	assert.Equal(t, 1, c.Parallelism)
	assert.True(t, c.Crop)
	assert.False(t, c.IsDev())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SOCDIAG_OUTPUT_DIR=from-file\nSOCDIAG_DPI=300\nSOCDIAG_FORMATS=png, SVG\n"), 0o644))

	// The environment wins over the file.
	t.Setenv("SOCDIAG_DPI", "150")
	// godotenv sets what it loads; make sure those are unset afterwards.
	t.Setenv("SOCDIAG_OUTPUT_DIR", "")
	t.Setenv("SOCDIAG_FORMATS", "")
	os.Unsetenv("SOCDIAG_OUTPUT_DIR")
	os.Unsetenv("SOCDIAG_FORMATS")

	c, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.OutputDir)
	assert.Equal(t, 150.0, c.DPI)
	assert.Equal(t, []string{"png", "svg"}, c.Formats)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, "output", c.OutputDir)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SOCDIAG_ENV":         "dev",
		"SOCDIAG_SEED":        "42",
		"SOCDIAG_PARALLELISM": "4",
		"SOCDIAG_CROP":        "false",
		"SOCDIAG_BACKGROUND":  " #fafafa ",
		"SOCDIAG_LOG_LEVEL":   "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	c := Default()
	require.NoError(t, c.applyEnv(lookup))
	assert.True(t, c.IsDev())
	assert.Equal(t, uint64(42), c.Seed)
	assert.Equal(t, 4, c.Parallelism)
	assert.False(t, c.Crop)
	assert.Equal(t, "#fafafa", c.Background)
	assert.Equal(t, "debug", c.LogLevel)

	env["SOCDIAG_SEED"] = "-1"
	assert.ErrorContains(t, Default().applyEnv(lookup), "SOCDIAG_SEED")
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Formats = []string{"png", "gif"}
	c.DPI = 0
	c.Parallelism = 0
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown format "gif"`)
	assert.ErrorContains(t, err, "dpi must be positive")
	assert.ErrorContains(t, err, "parallelism")

	c = Default()
	c.BoldFontPath = "bold.ttf"
	assert.Error(t, c.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"png", "pdf"}, SplitList(" PNG,,pdf , "))
	assert.Nil(t, SplitList(""))
}
