package cmd

import (
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/tui"
)

var tuiRemote string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal keypad",
	Long: `Start the terminal keypad.

Type digits and operators, or click the buttons. With --remote the keypad
drives a session on a calc API server over its WebSocket endpoint.

Keys:
  enter       =
  backspace   ⌫
  esc         C
  ?           help
  q, ctrl+c   quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiRemote, "remote", "", "WebSocket URL of a calc server, e.g. ws://localhost:8080/calculator/ws")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := tui.Config{
		RemoteURL: appConfig.TUI.RemoteURL,
		ShowHelp:  appConfig.TUI.ShowHelp,
	}
	if tuiRemote != "" {
		cfg.RemoteURL = tuiRemote
	}

	if err := tui.Run(cmd.Context(), cfg); err != nil {
		printError("keypad", err)
		return err
	}
	return nil
}
