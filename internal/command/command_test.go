package command

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/runner"
)

// fakeClient answers every request with a fixed response.
type fakeClient struct {
	mu       sync.Mutex
	requests []runner.Request
	// deadlines holds the context deadline of each request, zero if none.
	deadlines []time.Time
	resp      runner.Response
	err       error
}

func (c *fakeClient) Execute(ctx context.Context, req runner.Request) (runner.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	deadline, _ := ctx.Deadline()
	c.deadlines = append(c.deadlines, deadline)
	return c.resp, c.err
}

// newTestEnv returns an Env backed by a fresh in-memory store, with colour
// disabled and environment overrides cleared.
func newTestEnv(t *testing.T, client runner.Client) *Env {
	t.Helper()
	unsetEnv(t, "CODEPAD_COLOR", "CODEPAD_RUNNER", "CODEPAD_RUNNER_URL", "CODEPAD_STORAGE", "CODEPAD_RUNNER_TIMEOUT", "NO_COLOR")
	cfg := config.NewConfig()
	cfg.Set("", config.KeyStorageBackend, "memory")
	cfg.Set("", config.KeyStorageStore, "command-"+uuid.NewString())
	cfg.Set("", config.KeyColor, "never")
	return &Env{
		Config: cfg,
		Stdin:  strings.NewReader(""),
		Client: client,
	}
}

// unsetEnv removes the variables for the duration of the test. An empty
// value would still count as an override.
func unsetEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// execute parses args with the command's flags and runs it.
func execute(t *testing.T, cmd Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	fs := newFlagSet(cmd, &stderr)
	require.NoError(t, fs.Parse(args))
	err := cmd.Execute(fs.Args(), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func newFlagSet(cmd Command, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(output)
	cmd.SetupFlags(fs)
	return fs
}
