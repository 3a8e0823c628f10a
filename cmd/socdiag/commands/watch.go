package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/panyam/socdiag/generator"
	"github.com/panyam/socdiag/loader"
	"github.com/panyam/socdiag/viz"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-renders diagram documents whenever they change",
	Long: `Renders the documents given with --file and renders them again each time
one of them, or a palette next to them, is saved. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(filePatterns) == 0 {
			return fmt.Errorf("watch needs documents given with -f or --file")
		}
		if err := applyRenderFlags(cmd, cfg); err != nil {
			return err
		}
		paths, err := loader.Glob(filePatterns...)
		if err != nil {
			return err
		}
		gen, err := newGenerator(cmd, cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %d document(s), press Ctrl-C to stop\n", len(paths))
		load := func() ([]*viz.Figure, error) {
			figs, _, err := loadFigures()
			return figs, err
		}
		return gen.Watch(ctx, paths, load, generator.WatchOptions{})
	},
}

func init() {
	addRenderFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
