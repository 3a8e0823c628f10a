package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/panyam/socdiag/config"
	"github.com/panyam/socdiag/generator"
	"github.com/panyam/socdiag/loader"
	"github.com/panyam/socdiag/viz"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [diagram...]",
	Short: "Renders diagrams into the output directory",
	Long: `Renders the named diagrams, or every diagram of --set, into the output
directory. With no arguments all diagrams are rendered as PNG into ./output.

Formats: png, svg, pdf, dot, mermaid, excalidraw.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyRenderFlags(cmd, cfg); err != nil {
			return err
		}
		figs, _, err := loadFigures()
		if err != nil {
			return err
		}
		set, _ := cmd.Flags().GetString("set")
		figs, err = loader.Select(figs, args, set)
		if err != nil {
			return err
		}
		gen, err := newGenerator(cmd, cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return renderSets(ctx, cmd, gen, figs)
	},
}

// renderSets renders figures set by set, with a heading per set. Seeds
// keep counting across sets so no two figures of a run share one.
func renderSets(ctx context.Context, cmd *cobra.Command, gen *generator.Generator, figs []*viz.Figure) error {
	out := cmd.OutOrStdout()
	total, next := 0, 0
	for _, set := range loader.Sets(figs) {
		var group []*viz.Figure
		for _, f := range figs {
			if f.Set == set {
				group = append(group, f)
			}
		}
		fmt.Fprintf(out, "Generating %s diagrams...\n", generator.SetHeading(set))
		results, err := gen.GenerateFrom(ctx, group, next)
		next += len(group)
		total += len(results)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "All diagrams generated: %d file(s) in %s\n", total, gen.Options().OutputDir)
	return nil
}

func newGenerator(cmd *cobra.Command, c *config.Config) (*generator.Generator, error) {
	opts, err := generator.OptionsFromConfig(c)
	if err != nil {
		return nil, err
	}
	return generator.New(opts).
		WithLogger(slog.Default()).
		WithProgress(cmd.OutOrStdout()), nil
}

// addRenderFlags registers the flags shared by render and watch.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory (default: SOCDIAG_OUTPUT_DIR or ./output)")
	cmd.Flags().String("format", "", "Comma separated output formats (default: png)")
	cmd.Flags().Float64("dpi", 0, "Raster resolution in dots per inch (default: 100)")
	cmd.Flags().Uint64("seed", 0, "Seed for placeholder data; 0 picks a fresh one each run")
	cmd.Flags().Int("parallel", 0, "Number of diagrams rendered concurrently (default: 1)")
	cmd.Flags().String("background", "", "Background color overriding the documents'")
	cmd.Flags().String("font", "", "Regular TTF font for labels the built-in fonts cannot show")
	cmd.Flags().String("bold-font", "", "Bold TTF font to go with --font")
	cmd.Flags().Bool("no-crop", false, "Keep the full page instead of cropping PNGs to the content")
}

// applyRenderFlags overrides c with the flags the user set explicitly.
func applyRenderFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		c.Formats = config.SplitList(v)
	}
	if flags.Changed("dpi") {
		c.DPI, _ = flags.GetFloat64("dpi")
	}
	if flags.Changed("seed") {
		c.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("parallel") {
		c.Parallelism, _ = flags.GetInt("parallel")
	}
	if flags.Changed("background") {
		c.Background, _ = flags.GetString("background")
	}
	if flags.Changed("font") {
		c.FontPath, _ = flags.GetString("font")
	}
	if flags.Changed("bold-font") {
		c.BoldFontPath, _ = flags.GetString("bold-font")
	}
	if flags.Changed("no-crop") {
		noCrop, _ := flags.GetBool("no-crop")
		c.Crop = !noCrop
	}
	return c.Validate()
}

func init() {
	renderCmd.Flags().String("set", "all", "Diagram set to render: main, supplementary or all")
	addRenderFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}
