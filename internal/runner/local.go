package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// LocalClient evaluates nodejs requests in-process. It needs no network
// access and exists for offline use and tests; console output is captured and
// returned as the program output.
type LocalClient struct {
	logger *slog.Logger
}

// NewLocalClient creates a LocalClient.
func NewLocalClient(logger *slog.Logger) *LocalClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalClient{logger: logger}
}

// Execute runs req.Code in a fresh JavaScript runtime. Uncaught exceptions
// are reported in the output, the way a remote service reports stderr.
func (c *LocalClient) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Language != "nodejs" {
		return Response{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
	}
	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	vm := goja.New()

	var (
		mu  sync.Mutex
		out strings.Builder
	)
	write := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		mu.Lock()
		out.WriteString(strings.Join(parts, " "))
		out.WriteByte('\n')
		mu.Unlock()
		return goja.Undefined()
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, write); err != nil {
			return Response{}, fmt.Errorf("failed to install console.%s: %w", name, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return Response{}, fmt.Errorf("failed to install console: %w", err)
	}

	// Interrupt JS execution when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_, runErr := vm.RunString(req.Code)

	mu.Lock()
	output := out.String()
	mu.Unlock()

	if runErr != nil {
		var interrupted *goja.InterruptedError
		if errors.As(runErr, &interrupted) {
			return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, runErr)
		}
		c.logger.Debug("local script failed", "error", runErr)
		output += runErr.Error() + "\n"
	}

	return Response{
		Output:    output,
		HasOutput: output != "",
		Data:      map[string]any{"output": output},
	}, nil
}

var _ Client = (*LocalClient)(nil)
