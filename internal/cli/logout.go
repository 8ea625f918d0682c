// internal/cli/logout.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Clear(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}

		if flagJSON {
			return OutputJSON(cmd.OutOrStdout(), map[string]bool{"loggedOut": true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Credentials removed from", config.Path())
		return nil
	},
}
