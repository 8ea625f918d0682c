// internal/cli/workflows.go
package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/api"
)

var workflowsCmd = &cobra.Command{
	Use:     "workflows",
	Aliases: []string{"ls"},
	Short:   "List saved workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewCLIContext(cmd)
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.RequireAuth(); err != nil {
			return err
		}

		workflows, err := ctx.APIClient().ListWorkflows(ctx.Context)
		if err != nil {
			return fmt.Errorf("error fetching workflows: %w", err)
		}

		if flagJSON {
			if workflows == nil {
				workflows = []api.Workflow{}
			}
			return OutputJSON(cmd.OutOrStdout(), workflows)
		}

		printWorkflows(cmd.OutOrStdout(), workflows)
		return nil
	},
}

func printWorkflows(w io.Writer, workflows []api.Workflow) {
	if len(workflows) == 0 {
		fmt.Fprintln(w, "No workflows found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Saved Workflows")
	t.AppendHeader(table.Row{"Title", "ID", "Description"})
	for _, wf := range workflows {
		description := wf.Description
		if description == "" {
			description = "-"
		}
		t.AppendRow(table.Row{wf.Title, wf.ID, description})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, WidthMax: 40},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
	})
	t.Render()
}
