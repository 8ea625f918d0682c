// internal/cli/validate.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/api"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the stored token is accepted by the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewCLIContext(cmd)
		if err != nil {
			return err
		}
		defer ctx.Close()

		w := cmd.OutOrStdout()

		if !ctx.Config.HasToken() {
			if flagJSON {
				if err := OutputJSON(w, &api.TokenValidation{Valid: false, Error: "Not authenticated"}); err != nil {
					return err
				}
				return &ExitError{Code: ExitCodeError}
			}
			fmt.Fprintln(w, "Status: Not authenticated")
			fmt.Fprintln(w, "\nRun 'grabbit config set-token <token>' to authenticate.")
			return &ExitError{Code: ExitCodeError}
		}

		if !flagJSON {
			fmt.Fprintln(w, "Validating token...")
		}

		result := ctx.APIClient().ValidateToken(ctx.Context)

		if flagJSON {
			if err := OutputJSON(w, result); err != nil {
				return err
			}
		} else {
			printValidation(w, result)
		}

		if !result.Valid {
			return &ExitError{Code: ExitCodeError}
		}
		return nil
	},
}

func printValidation(w io.Writer, result *api.TokenValidation) {
	if result.Valid {
		fmt.Fprintln(w, "Status: Authenticated")
		fmt.Fprintf(w, "User ID: %s\n", result.UserID)
		return
	}

	msg := result.Error
	if msg == "" {
		msg = "Unknown error"
	}
	if api.IsWaitlisted(msg) {
		fmt.Fprintln(w, "Status: Waitlisted")
		fmt.Fprintln(w, "Your account is not yet approved.")
		fmt.Fprintln(w, "Check the waitlist page or contact support.")
		return
	}

	fmt.Fprintln(w, "Status: Invalid or expired token")
	fmt.Fprintf(w, "Error: %s\n", msg)
	fmt.Fprintln(w, "\nRun 'grabbit config set-token <token>' to re-authenticate.")
}
