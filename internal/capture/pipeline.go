package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/colebanman/grabbit-cli/internal/api"
	"github.com/colebanman/grabbit-cli/internal/browse"
	"github.com/colebanman/grabbit-cli/internal/har"
	"github.com/colebanman/grabbit-cli/internal/state"
)

// Exporter exports the recorded HAR of a browser session.
type Exporter interface {
	Export(ctx context.Context, session string) browse.ExportResult
}

// Submitter creates a generation task on the service.
type Submitter interface {
	SubmitTask(ctx context.Context, content api.Content, prompt, model string, opts api.SubmitOptions) (*api.SubmitResult, error)
}

// Result describes a submitted capture.
type Result struct {
	TaskID          string   `json:"taskId"`
	Status          string   `json:"status"`
	Session         string   `json:"session"`
	Entries         int      `json:"entries"`
	Stripped        int      `json:"stripped"`
	AgentSteps      []string `json:"agentSteps,omitempty"`
	OriginalBytes   int      `json:"originalBytes"`
	CompressedBytes int      `json:"compressedBytes"`
}

// Pipeline exports, filters, compresses and submits a session's capture.
type Pipeline struct {
	Exporter  Exporter
	Submitter Submitter

	// Runner closes the browser session once the task is submitted.
	Runner browse.Runner
	Store  state.Store

	Log zerolog.Logger
	Out io.Writer
}

// Save runs the pipeline for req. Every step must succeed before the next
// one starts; nothing is sent if the capture is empty or malformed.
func (p *Pipeline) Save(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, &UserError{
			Message: "Missing prompt",
			Hint:    `Usage: grabbit save --session <name> "Describe the workflow"`,
		}
	}

	p.printf("Exporting HAR from browser session...\n")

	session := req.Session
	if session == "" {
		session = p.trackedSession()
	}
	if session == "" {
		return nil, &UserError{
			Message: "No active browser session",
			Hint:    "Start one with: grabbit browse --session <name> open <url>",
		}
	}
	log := p.Log.With().Str("session", session).Logger()

	exported := p.Exporter.Export(ctx, session)
	if !exported.Available() {
		log.Info().Str("reason", exported.Reason).Msg("no capture to save")
		return nil, &UserError{
			Message: "Failed to export HAR",
			Hint:    "Make sure you have an active browser session with recorded requests.",
		}
	}

	count, err := har.CountEntries(exported.HAR)
	if err != nil {
		return nil, &UserError{Message: "Invalid HAR data"}
	}
	p.printf("Captured %d request(s)\n", count)

	filtered, err := har.Filter(exported.HAR)
	switch {
	case errors.Is(err, har.ErrNoEntries):
		return nil, &UserError{
			Message: "No requests recorded",
			Hint:    "Navigate to a page and interact with it before saving.",
		}
	case err != nil:
		return nil, &UserError{Message: "Invalid HAR data"}
	}
	if filtered.Stripped > 0 {
		p.printf("Optimized HAR: Stripped %d binary response bodies\n", filtered.Stripped)
	}

	steps := req.Steps
	if len(steps) == 0 {
		entries, err := har.EntriesPrefix(filtered.HAR, har.MaxAgentSteps)
		if err != nil {
			return nil, &UserError{Message: "Invalid HAR data"}
		}
		steps = har.DeriveAgentSteps(entries)
	}

	p.printf("Submitting task...\n")
	p.printf("Compressing capture data...\n")
	compressed, err := api.Gzip([]byte(filtered.HAR))
	if err != nil {
		return nil, fmt.Errorf("failed to compress capture: %w", err)
	}
	p.printf("Size: %s MB -> %s MB\n", megabytes(len(filtered.HAR)), megabytes(len(compressed)))

	log.Debug().
		Int("entries", filtered.Entries).
		Int("stripped", filtered.Stripped).
		Int("agent_steps", len(steps)).
		Msg("capture ready")

	submitted, err := p.Submitter.SubmitTask(ctx, api.BinaryContent(compressed), req.Prompt, req.Model, api.SubmitOptions{
		Compression: api.CompressionGzip,
		Transport:   api.TransportMultipart,
		AgentSteps:  steps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}
	log.Info().Str("task", submitted.TaskID).Str("status", submitted.Status).Msg("task submitted")

	p.printf("\nTask submitted: %s\n", submitted.TaskID)
	p.printf("Status: %s\n", submitted.Status)
	p.printf("\nCheck progress with: grabbit check %s\n", submitted.TaskID)

	// The task owns the capture now; the browser session is no longer needed.
	_, code := p.Runner.Output(ctx, "--session", session, "close")
	log.Debug().Int("exit", code).Msg("closed browser session")
	if err := p.Store.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear session marker")
	}

	return &Result{
		TaskID:          submitted.TaskID,
		Status:          submitted.Status,
		Session:         session,
		Entries:         filtered.Entries,
		Stripped:        filtered.Stripped,
		AgentSteps:      steps,
		OriginalBytes:   len(filtered.HAR),
		CompressedBytes: len(compressed),
	}, nil
}

func (p *Pipeline) trackedSession() string {
	s, err := p.Store.Load()
	if err != nil {
		p.Log.Warn().Err(err).Msg("ignoring unreadable session marker")
		return ""
	}
	if s == nil {
		return ""
	}
	return s.SessionName
}

func (p *Pipeline) printf(format string, args ...any) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

func megabytes(n int) string {
	return fmt.Sprintf("%.2f", float64(n)/1024/1024)
}
