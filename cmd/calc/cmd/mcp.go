package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/mcptool"
	"go-chi-calculator/internal/observability"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the calculator over MCP on stdio",
	Long: `Serve one calculator to an MCP client over stdin/stdout.

Tools:
  press_keys    press keys in order and return the display
  read_display  return the display
  clear         reset the calculator`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	s := mcptool.NewServer(Version, observability.Logger)

	observability.Logger.Info("mcp server starting")
	if err := server.ServeStdio(s); err != nil {
		printError("mcp server", err)
		return err
	}
	return nil
}
