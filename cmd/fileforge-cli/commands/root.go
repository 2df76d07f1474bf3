package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fileforge",
	Short: "fileforge - convert and compress files from the command line",
	Long: `fileforge runs the same conversion routes as the fileforge API against
local files: images to PDF or SVG, PDFs to images, DOCX round-trips,
video audio extraction, and lossy compression.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: "fileforge-cli",
		})

		if noColor {
			color.NoColor = true
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
