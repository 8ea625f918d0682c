// internal/cli/save.go
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/colebanman/grabbit-cli/internal/browse"
	"github.com/colebanman/grabbit-cli/internal/capture"
)

var saveCmd = &cobra.Command{
	Use:   "save <prompt...>",
	Short: "Submit the recorded HAR and a prompt to generate a workflow",
	Long: `Export the HAR recorded by the active browser session, strip binary
response bodies, and submit it with a description of the workflow to build.

The browser session is closed once the task is submitted.`,
	Example: `  grabbit save "search for a product and add it to the cart"
  grabbit save --session shop --model gpt-4.1 "check out the cart"
  grabbit save "export invoices" --step "open billing" --step "download pdf"`,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringP("model", "m", "", "Model to use for generation")
	saveCmd.Flags().StringP("session", "s", "", "Browser session name")
	saveCmd.Flags().StringArray("step", nil, "Step hint to send with the task (repeatable)")
}

// saveOptions reads the save flags.
func saveOptions(flags *pflag.FlagSet) capture.Options {
	model, _ := flags.GetString("model")
	session, _ := flags.GetString("session")
	steps, _ := flags.GetStringArray("step")
	return capture.Options{Model: model, Session: session, Steps: steps}
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx, err := NewCLIContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	req := capture.NormalizePrompt(args, saveOptions(cmd.Flags()))

	runner, err := ctx.Runner()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		out = io.Discard
	}

	pipeline := &capture.Pipeline{
		Exporter:  &browse.Exporter{Runner: runner, Log: ctx.Log.Logger},
		Submitter: ctx.APIClient(),
		Runner:    runner,
		Store:     ctx.Store(),
		Log:       ctx.Log.Logger,
		Out:       out,
	}

	result, err := pipeline.Save(ctx.Context, req)
	if err != nil {
		return err
	}

	if flagJSON {
		return OutputJSON(cmd.OutOrStdout(), result)
	}
	return nil
}
