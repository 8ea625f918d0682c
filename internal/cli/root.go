// internal/cli/root.go
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	flagJSON    bool
	flagVerbose bool

	// Config override flags
	flagAPIURL string
)

var rootCmd = &cobra.Command{
	Use:   "grabbit",
	Short: "Convert browser interactions into API workflows",
	Long: `grabbit records the network traffic of a browser session and turns it
into a reusable API workflow.

Quick start:
  grabbit browse open https://example.com    # Open a page and start recording
  grabbit browse click "#login"              # Interact with the page
  grabbit save "log in and list my orders"   # Submit the capture
  grabbit check <task-id>                    # Follow the generated workflow`,
	// Silence usage and errors - we handle our own error output
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")

	// Config override flags (override env vars and config.json)
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Override API URL (default: https://www.grabbit.dev)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
