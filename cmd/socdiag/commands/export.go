package commands

import (
	"fmt"
	"os"

	"github.com/panyam/socdiag/loader"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <diagram>",
	Short: "Prints the YAML document of a diagram",
	Long: `Prints the YAML document a diagram is defined by. Built-in documents make a
good starting point for custom diagrams:

  socdiag export overview > my-overview.yaml
  socdiag render -f my-overview.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(filePatterns) == 0 {
			data, err = loader.BuiltinSource(args[0])
		} else {
			fig, sources, ferr := findFigure(args[0])
			if ferr != nil {
				return ferr
			}
			data, err = os.ReadFile(sources[fig.Name])
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
