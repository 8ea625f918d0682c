// internal/cli/browse.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse <command...>",
	Short: "Browser automation (wraps grabbit-browse)",
	Long: `Run a grabbit-browse command.

Navigation commands (open, navigate, or a bare URL) start HAR recording and
reload the page so the first load is captured. Without --session a fresh
temporary session is used and any previous temporary session is closed.
Other commands without --session get a fresh temporary name too, unless
browser.follow_active_session is set in settings.yaml.`,
	Example: `  grabbit browse open https://example.com
  grabbit browse --session shop open https://shop.example.com
  grabbit browse click "#add-to-cart"
  grabbit browse close`,
	// Everything after "browse" belongs to grabbit-browse.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
			return cmd.Help()
		}
		if len(args) == 0 {
			return NewUsageError("browse requires a command (e.g. grabbit browse open <url>)")
		}

		ctx, err := NewCLIContext(cmd)
		if err != nil {
			return err
		}
		defer ctx.Close()

		runner, err := ctx.Runner()
		if err != nil {
			return err
		}

		controller := &browse.Controller{
			Runner:        runner,
			Store:         ctx.Store(),
			SettleDelay:   ctx.Settings.Browser.SettleDelay,
			FollowTracked: ctx.Settings.Browser.FollowActiveSession,
			Log:           ctx.Log.Logger,
			Out:           cmd.OutOrStdout(),
			Err:           cmd.ErrOrStderr(),
		}

		code, err := controller.Run(ctx.Context, args)
		if err != nil {
			return err
		}
		if code != 0 {
			return &ExitError{Code: code}
		}
		return nil
	},
}
