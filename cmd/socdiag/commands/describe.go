package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/panyam/socdiag/viz"
	"github.com/spf13/cobra"
)

type panelDescription struct {
	Index      int            `json:"index"`
	Title      string         `json:"title,omitempty"`
	Extent     viz.Extent     `json:"extent"`
	Drawables  map[string]int `json:"drawables"`
	Primitives map[string]int `json:"primitives"`
}

type figureDescription struct {
	figureSummary
	Source string             `json:"source,omitempty"`
	Panels []panelDescription `json:"panel_details"`
}

// describeFigure renders each panel alone onto a recorder to count the
// primitives it produces.
func describeFigure(f *viz.Figure, dpi float64) figureDescription {
	desc := figureDescription{figureSummary: summarize(f)}
	w, h := f.PixelSize(dpi)
	for i, p := range f.Panels {
		kinds := map[string]int{}
		for _, d := range p.Elements {
			kinds[d.Kind()]++
		}
		single := *f
		single.Panels = []*viz.Panel{p}
		rec := viz.NewRecorder(float64(w), float64(h))
		viz.Render(&single, rec)
		desc.Panels = append(desc.Panels, panelDescription{
			Index: i, Title: p.Title, Extent: p.Extent,
			Drawables: kinds, Primitives: rec.Counts(),
		})
	}
	return desc
}

var describeCmd = &cobra.Command{
	Use:   "describe <diagram>",
	Short: "Shows the panels, elements and drawing primitives of a diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputJSON, _ := cmd.Flags().GetBool("json")
		fig, sources, err := findFigure(args[0])
		if err != nil {
			return err
		}
		desc := describeFigure(fig, cfg.DPI)
		desc.Source = sources[fig.Name]

		out := cmd.OutOrStdout()
		if outputJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(desc)
		}
		fmt.Fprintf(out, "Diagram '%s' (set %s)\n", desc.Name, desc.Set)
		fmt.Fprintf(out, "  Title: %s\n", desc.Title)
		fmt.Fprintf(out, "  Output: %s\n", desc.Output)
		fmt.Fprintf(out, "  Size: %gx%g in\n", desc.Width, desc.Height)
		if desc.Source != "" {
			fmt.Fprintf(out, "  Source: %s\n", desc.Source)
		}
		for _, p := range desc.Panels {
			title := strings.SplitN(p.Title, "\n", 2)[0]
			fmt.Fprintf(out, "  Panel %d %s\n", p.Index, title)
			fmt.Fprintf(out, "    Elements: %s\n", formatCounts(p.Drawables))
			fmt.Fprintf(out, "    Primitives: %s\n", formatCounts(p.Primitives))
		}
		return nil
	},
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

func init() {
	describeCmd.Flags().Bool("json", false, "Output in JSON format")
	rootCmd.AddCommand(describeCmd)
}
