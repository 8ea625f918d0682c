package browse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

//go:generate mockgen -package=browse -destination=mock_runner_test.go github.com/colebanman/grabbit-cli/internal/browse Runner

// Runner executes grabbit-browse. Both methods report the process exit code;
// a process that could not be started reports 1.
type Runner interface {
	// Run executes with inherited stdio.
	Run(ctx context.Context, args ...string) int

	// Output executes with stdout captured.
	Output(ctx context.Context, args ...string) ([]byte, int)
}

// ExecRunner runs grabbit-browse as "<Runtime> <Path> args...". With an
// empty Runtime, Path is executed directly.
type ExecRunner struct {
	Runtime string
	Path    string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log zerolog.Logger
}

// NewExecRunner returns a runner wired to the process's stdio.
func NewExecRunner(runtime, path string, log zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		Runtime: runtime,
		Path:    path,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     log,
	}
}

func (r *ExecRunner) command(ctx context.Context, args []string) *exec.Cmd {
	var cmd *exec.Cmd
	if r.Runtime == "" {
		cmd = exec.CommandContext(ctx, r.Path, args...)
	} else {
		cmd = exec.CommandContext(ctx, r.Runtime, append([]string{r.Path}, args...)...)
	}
	cmd.Stdin = r.Stdin
	cmd.Stderr = r.Stderr
	cmd.Env = os.Environ()
	return cmd
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) int {
	cmd := r.command(ctx, args)
	cmd.Stdout = r.Stdout
	return r.run(cmd, args)
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, args ...string) ([]byte, int) {
	var stdout bytes.Buffer
	cmd := r.command(ctx, args)
	cmd.Stdout = &stdout
	code := r.run(cmd, args)
	return stdout.Bytes(), code
}

func (r *ExecRunner) run(cmd *exec.Cmd, args []string) int {
	start := time.Now()
	err := cmd.Run()
	code := exitCode(err)

	ev := r.Log.Debug()
	if code != 0 {
		ev = r.Log.Info()
	}
	ev.Str("args", strings.Join(args, " ")).Int("exit", code).Dur("elapsed", time.Since(start)).Msg("grabbit-browse finished")

	if err != nil && cmd.ProcessState == nil {
		fmt.Fprintf(r.Stderr, "Error executing grabbit-browse: %v\n", err)
	}
	return code
}

// exitCode maps a process result to an exit code. Processes killed by a
// signal and processes that never started both map to 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
