package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "usaspending-mcp",
	Short: "MCP server for usaspending.gov federal spending data",
	Long: `usaspending-mcp is an MCP (Model Context Protocol) server that gives AI
assistants access to U.S. federal spending data from usaspending.gov.

It provides tools for looking up agency spending by fiscal year, retrieving
award details, searching awards by keyword, and listing toptier agencies.`,
	SilenceUsage: true,
}

// version holds the build version, injected through SetVersion before
// Execute runs.
var version = "dev"

// SetVersion records the build version for the version subcommand and the
// --version flag.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the CLI. Invoking the binary with no subcommand starts the
// MCP server, which is what MCP client configs expect of a server binary.
func Execute() {
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "usaspending-mcp version %s\n" .Version}}`)
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
