package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/socdiag/loader"
	"github.com/panyam/socdiag/viz"
	"github.com/spf13/cobra"
)

type figureSummary struct {
	Name     string  `json:"name"`
	Set      string  `json:"set"`
	Title    string  `json:"title"`
	Output   string  `json:"output"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Panels   int     `json:"panels"`
	Elements int     `json:"elements"`
}

func summarize(f *viz.Figure) figureSummary {
	return figureSummary{
		Name: f.Name, Set: f.Set, Title: f.Title, Output: f.Output,
		Width: f.Width, Height: f.Height,
		Panels: len(f.Panels), Elements: f.ElementCount(),
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the available diagrams",
	Long: `Lists the built-in diagrams, or the diagrams of the documents given with
--file, with their set, page size and number of elements.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputJSON, _ := cmd.Flags().GetBool("json")
		set, _ := cmd.Flags().GetString("set")

		figs, _, err := loadFigures()
		if err != nil {
			return err
		}
		if figs, err = loader.Select(figs, nil, set); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		summaries := gfn.Map(figs, summarize)
		if outputJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSET\tSIZE\tPANELS\tELEMENTS\tTITLE")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%gx%g\t%d\t%d\t%s\n", s.Name, s.Set, s.Width, s.Height, s.Panels, s.Elements, s.Title)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Output in JSON format")
	listCmd.Flags().String("set", "all", "Only list diagrams of this set")
	rootCmd.AddCommand(listCmd)
}
