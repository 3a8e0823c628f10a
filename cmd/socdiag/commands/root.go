package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/panyam/socdiag/config"
	"github.com/panyam/socdiag/logging"
	"github.com/spf13/cobra"
)

// Global flags
var (
	filePatterns []string
	envFile      string
	logLevel     string
)

// cfg is resolved before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "socdiag",
	Short: "socdiag renders security operations center diagrams",
	Long: `socdiag renders the SOC organizational diagrams (overview, incident
process, metrics and tools, team roles) from declarative YAML documents.
The built-in diagrams are used unless documents are given with --file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		level, err := logging.ParseLevel(c.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, c.IsDev()))
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&filePatterns, "file", "f", nil, "Diagram documents to use instead of the built-ins (globs like docs/**/*.yaml allowed)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file with SOCDIAG_* settings (ignored if missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error, off")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
