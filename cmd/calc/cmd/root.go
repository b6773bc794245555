package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

var (
	cfgFile string
	logFile string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Keypad calculator",
	Long: `calc is a keypad calculator: digits, a decimal point, the four
operators, equals, clear, backspace and percent.

Commands:
  tui      - interactive terminal keypad (local or remote)
  eval     - press keys and print the display
  mcp      - serve the calculator to MCP clients over stdio`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.SyncLogger()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, TOML or YAML (default: $CALC_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (default: no logging)")
}

// setup loads configuration and points the logger at --log-file. Without
// one, logging is off so the terminal and stdio streams stay clean.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = os.Getenv("CALC_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	appConfig = cfg

	if logFile == "" {
		observability.DisableLogger()
		return nil
	}

	logCfg := cfg.Log
	logCfg.OutputPaths = []string{logFile}
	return observability.InitLogger(logCfg)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
