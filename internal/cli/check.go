// internal/cli/check.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/colebanman/grabbit-cli/internal/api"
)

var checkCmd = &cobra.Command{
	Use:   "check <task-id>",
	Short: "Check the status of a submitted task",
	Example: `  grabbit check 7f3c2a
  grabbit check 7f3c2a --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := NewCLIContext(cmd)
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.RequireAuth(); err != nil {
			return err
		}

		status, err := ctx.APIClient().CheckTask(ctx.Context, args[0])
		if err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}

		if flagJSON {
			return OutputJSON(cmd.OutOrStdout(), status)
		}

		printStatus(cmd.OutOrStdout(), status, isTerminal(os.Stdout))
		return nil
	},
}

// printStatus writes a human-readable task status. Instructions are
// rendered as markdown when styled is set.
func printStatus(w io.Writer, status *api.TaskStatus, styled bool) {
	if status.Status != api.StatusCompleted {
		fmt.Fprintf(w, "Status: %s\n", status.Status)
	}

	switch status.Status {
	case api.StatusPending:
		fmt.Fprintln(w, "Task is queued and waiting to be processed.")

	case api.StatusProcessing:
		fmt.Fprintln(w, "Task is being processed...")

	case api.StatusCompleted:
		if len(status.Inputs) > 0 {
			fmt.Fprintln(w, "--- Inputs ---")
			renderFields(w, status.Inputs, true)
		}

		if len(status.Outputs) > 0 {
			fmt.Fprintln(w, "\n--- Outputs ---")
			renderFields(w, status.Outputs, false)
		}

		if status.Curl != "" {
			fmt.Fprintln(w, "\n--- cURL ---")
			fmt.Fprintln(w, status.Curl)
		}

		if status.SkillMd != "" {
			fmt.Fprintln(w, "\n--- Instructions ---")
			fmt.Fprintln(w, renderMarkdown(status.SkillMd, styled))
		}

		if status.AddCommand != "" {
			fmt.Fprintln(w, "\n--- Add as Skill ---")
			fmt.Fprintln(w, "Run this command to add this workflow as a local skill:")
			fmt.Fprintf(w, "  %s\n", status.AddCommand)
		}

	case api.StatusError:
		fmt.Fprintln(w, "Task failed with error:")
		if status.Error != "" {
			fmt.Fprintln(w, status.Error)
		} else {
			fmt.Fprintln(w, "Unknown error")
		}
	}
}

func renderFields(w io.Writer, fields []api.TaskField, withDefault bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	header := table.Row{"Name", "Type", "Description"}
	if withDefault {
		header = append(header, "Default")
	}
	t.AppendHeader(header)

	for _, f := range fields {
		row := table.Row{f.Name, f.Type, f.Description}
		if withDefault {
			row = append(row, formatDefault(f.Default))
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
	})
	t.Render()
}

func formatDefault(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

// renderMarkdown returns md styled for the terminal, or unchanged when
// styling is off or fails.
func renderMarkdown(md string, styled bool) string {
	if !styled {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
