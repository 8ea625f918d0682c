// internal/cli/version.go
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func SetVersionInfo(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			return OutputJSON(cmd.OutOrStdout(), map[string]string{
				"version": version,
				"commit":  commit,
				"built":   buildTime,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "grabbit version %s\n", version)
		fmt.Fprintf(w, "  commit:  %s\n", commit)
		fmt.Fprintf(w, "  built:   %s\n", buildTime)
		fmt.Fprintf(w, "  go:      %s\n", runtime.Version())
		fmt.Fprintf(w, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
