// Package generator renders figures into files: one file per figure and
// output format, written atomically into the output directory.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panyam/socdiag/config"
	"github.com/panyam/socdiag/viz"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	OutputDir   string
	Formats     []string
	DPI         float64
	Background  color.NRGBA // overrides figure backgrounds when opaque
	Fonts       *viz.FontSet
	Seed        uint64 // 0 picks a fresh seed when the generator is built
	Parallelism int
	Crop        bool
}

// OptionsFromConfig resolves colors and fonts named by c.
func OptionsFromConfig(c *config.Config) (Options, error) {
	opts := Options{
		OutputDir:   c.OutputDir,
		Formats:     c.Formats,
		DPI:         c.DPI,
		Seed:        c.Seed,
		Parallelism: c.Parallelism,
		Crop:        c.Crop,
	}
	if c.Background != "" {
		bg, err := viz.ParseColor(c.Background)
		if err != nil {
			return opts, fmt.Errorf("background: %w", err)
		}
		opts.Background = bg
	}
	if c.FontPath != "" {
		fonts, err := viz.LoadFontSet(c.FontPath, c.BoldFontPath)
		if err != nil {
			return opts, err
		}
		opts.Fonts = fonts
	}
	return opts, nil
}

// Result describes one written file.
type Result struct {
	Figure string
	Format string
	Path   string
	Bytes  int
	Seed   uint64
}

type Generator struct {
	opts   Options
	logger *slog.Logger
	out    io.Writer // progress lines for humans
	outMu  sync.Mutex
}

func New(opts Options) *Generator {
	if opts.Fonts == nil {
		opts.Fonts = viz.GoFonts()
	}
	if opts.DPI <= 0 {
		opts.DPI = 100
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{"png"}
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	return &Generator{opts: opts, logger: slog.Default(), out: io.Discard}
}

func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.logger = logger
	return g
}

// WithProgress sets where progress and completion lines are printed.
func (g *Generator) WithProgress(w io.Writer) *Generator {
	g.out = w
	return g
}

func (g *Generator) Options() Options { return g.opts }

func (g *Generator) printf(format string, args ...any) {
	g.outMu.Lock()
	defer g.outMu.Unlock()
	fmt.Fprintf(g.out, format, args...)
}

// Generate renders every figure in every configured format. Figures are
// rendered concurrently up to the configured parallelism; the first
// failure cancels figures that have not started yet and is returned.
// Results are ordered by figure, then format.
func (g *Generator) Generate(ctx context.Context, figs []*viz.Figure) ([]Result, error) {
	return g.GenerateFrom(ctx, figs, 0)
}

// GenerateFrom is Generate for a batch that continues an earlier one:
// figs[i] is seeded as the figure at position first+i of the whole run.
func (g *Generator) GenerateFrom(ctx context.Context, figs []*viz.Figure, first int) ([]Result, error) {
	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", g.opts.OutputDir, err)
	}

	base := g.opts.Seed + uint64(first)
	perFig := make([][]Result, len(figs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Parallelism)
	for i, fig := range figs {
		seed := base + uint64(i)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.generateFigure(fig, seed)
			perFig[i] = res
			return err
		})
	}
	err := eg.Wait()

	var results []Result
	for _, r := range perFig {
		results = append(results, r...)
	}
	return results, err
}

func (g *Generator) generateFigure(fig *viz.Figure, seed uint64) ([]Result, error) {
	f := *fig
	if f.Seed == 0 {
		f.Seed = seed
	}
	g.printf("Generating %s diagram...\n", Label(&f))
	start := time.Now()

	var results []Result
	for _, format := range g.opts.Formats {
		data, err := g.Render(&f, format)
		if err != nil {
			return results, err
		}
		path := filepath.Join(g.opts.OutputDir, OutputName(&f, format))
		if err := writeFileAtomic(path, data, 0o644); err != nil {
			return results, fmt.Errorf("write %s: %w", path, err)
		}
		results = append(results, Result{Figure: f.Name, Format: format, Path: path, Bytes: len(data), Seed: f.Seed})
		g.printf("%s diagram saved as: %s\n", Label(&f), path)
	}
	g.logger.Debug("Rendered figure", "figure", f.Name, "seed", f.Seed, "formats", len(results), "elapsed", time.Since(start))
	return results, nil
}

// Render produces the encoded bytes of fig in one format.
func (g *Generator) Render(fig *viz.Figure, format string) ([]byte, error) {
	f := *fig
	if g.opts.Background.A > 0 {
		f.Background = g.opts.Background
	}
	switch format {
	case "png", "svg", "pdf":
		s := g.surface(&f, format)
		viz.Render(&f, s)
		var buf bytes.Buffer
		if err := s.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode %s as %s: %w", f.Name, format, err)
		}
		return buf.Bytes(), nil
	case "dot":
		return (&viz.TopologyExporter{Generator: &viz.DotGenerator{}}).Export(&f)
	case "mermaid":
		return (&viz.TopologyExporter{Generator: &viz.MermaidStaticGenerator{}}).Export(&f)
	case "excalidraw":
		return (&viz.ExcalidrawGenerator{DPI: g.opts.DPI}).Export(&f)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func (g *Generator) surface(f *viz.Figure, format string) viz.Encoder {
	w, h := f.PixelSize(g.opts.DPI)
	switch format {
	case "svg":
		return viz.NewSVGSurface(float64(w), float64(h), f.Background, g.opts.Fonts)
	case "pdf":
		s := viz.NewPDFSurface(float64(w), float64(h), g.opts.DPI, f.Background, g.opts.Fonts)
		s.SetTitle(Label(f))
		return s
	}
	return viz.NewPNGSurface(w, h, viz.PNGOptions{
		Background: f.Background,
		Fonts:      g.opts.Fonts,
		DPI:        g.opts.DPI,
		Crop:       g.opts.Crop,
	})
}
