package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the personal-calendar-mcp application
var rootCmd = &cobra.Command{
	Use:   "personal-calendar-mcp",
	Short: "MCP server that creates Google Calendar events through an Apps Script web app",
	Long: `personal-calendar-mcp exposes Google Calendar tools to AI assistants over the
Model Context Protocol (streamable HTTP, stateless).

Tool calls are validated and relayed to a Google Apps Script web app, which
performs the actual calendar change.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "personal-calendar-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
