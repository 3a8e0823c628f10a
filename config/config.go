// Package config resolves generator settings from defaults, an optional
// .env file and SOCDIAG_* environment variables. Command flags are applied
// on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "SOCDIAG_"

// Formats lists every output format the generator can write.
var Formats = []string{"png", "svg", "pdf", "dot", "mermaid", "excalidraw"}

type Config struct {
	Env          string   // "dev" switches to the pretty log handler
	OutputDir    string   // created if missing
	Formats      []string // subset of Formats
	DPI          float64
	Background   string // color name or hex; overrides figure backgrounds when set
	FontPath     string // optional regular TTF for non-Latin labels
	BoldFontPath string
	Seed         uint64 // 0 picks a fresh seed per run
	Parallelism  int
	LogLevel     string
	Crop         bool
}

func Default() *Config {
	return &Config{
		Env:         "prod",
		OutputDir:   "output",
		Formats:     []string{"png"},
		DPI:         100,
		Parallelism: 1,
		LogLevel:    "info",
		Crop:        true,
	}
}

// Load builds a config from defaults, then envFile (if it exists), then
// the process environment. Variables already set in the environment win
// over the .env file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}
	c := Default()
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	if v, ok := get("ENV"); ok {
		c.Env = v
	}
	if v, ok := get("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := get("FORMATS"); ok {
		c.Formats = SplitList(v)
	}
	if v, ok := get("BACKGROUND"); ok {
		c.Background = v
	}
	if v, ok := get("FONT"); ok {
		c.FontPath = v
	}
	if v, ok := get("BOLD_FONT"); ok {
		c.BoldFontPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("DPI"); ok {
		dpi, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sDPI %q: %w", envPrefix, v, err)
		}
		c.DPI = dpi
	}
	if v, ok := get("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED %q: %w", envPrefix, v, err)
		}
		c.Seed = seed
	}
	if v, ok := get("PARALLELISM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPARALLELISM %q: %w", envPrefix, v, err)
		}
		c.Parallelism = n
	}
	if v, ok := get("CROP"); ok {
		crop, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCROP %q: %w", envPrefix, v, err)
		}
		c.Crop = crop
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("at least one output format is required"))
	}
	for _, f := range c.Formats {
		if !slices.Contains(Formats, f) {
			errs = append(errs, fmt.Errorf("unknown format %q (want one of %s)", f, strings.Join(Formats, ", ")))
		}
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %v", c.DPI))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.BoldFontPath != "" && c.FontPath == "" {
		errs = append(errs, errors.New("bold font given without a regular font"))
	}
	return errors.Join(errs...)
}

// IsDev reports whether the pretty development logger should be used.
func (c *Config) IsDev() bool { return c.Env == "dev" }

// SplitList splits a comma separated flag or variable value, dropping
// blanks and lowercasing entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
