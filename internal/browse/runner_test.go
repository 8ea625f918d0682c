package browse

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func shellRunner(t *testing.T) (*ExecRunner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	var stdout, stderr bytes.Buffer
	return &ExecRunner{Runtime: "sh", Path: "-c", Stdout: &stdout, Stderr: &stderr, Log: zerolog.Nop()}, &stdout, &stderr
}

func TestExecRunnerExitCodes(t *testing.T) {
	r, stdout, _ := shellRunner(t)

	assert.Equal(t, 0, r.Run(context.Background(), "echo ok"))
	assert.Equal(t, "ok\n", stdout.String())
	assert.Equal(t, 3, r.Run(context.Background(), "exit 3"))
}

func TestExecRunnerSignalMapsToOne(t *testing.T) {
	r, _, _ := shellRunner(t)
	assert.Equal(t, 1, r.Run(context.Background(), "kill -9 $$"))
}

func TestExecRunnerOutput(t *testing.T) {
	r, stdout, _ := shellRunner(t)

	out, code := r.Output(context.Background(), `printf '{"success":true}'`)
	assert.Equal(t, 0, code)
	assert.Equal(t, `{"success":true}`, string(out))
	assert.Empty(t, stdout.String(), "captured output is not echoed")
}

func TestExecRunnerStartFailure(t *testing.T) {
	var stderr bytes.Buffer
	r := &ExecRunner{Path: "/nonexistent/grabbit-browse", Stderr: &stderr, Log: zerolog.Nop()}

	assert.Equal(t, 1, r.Run(context.Background(), "open", "https://example.com"))
	assert.Contains(t, stderr.String(), "Error executing grabbit-browse:")

	out, code := r.Output(context.Background(), "har", "export", "--json")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}
