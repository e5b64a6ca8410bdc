// Package runner sends source text to a code execution service and returns
// the program output.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrConnectionFailed is returned when the execution service cannot be
	// reached, or the request is cancelled before a response arrives.
	ErrConnectionFailed = errors.New("connection to execution service failed")

	// ErrMalformedResponse is returned when the service replies with a body
	// that does not carry a data object.
	ErrMalformedResponse = errors.New("malformed execution service response")

	// ErrUnsupportedLanguage is returned by backends that cannot run the
	// requested language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Request is the wire request to the execution service.
type Request struct {
	// Language is the service language identifier, e.g. "nodejs".
	Language string `json:"type"`
	Version  string `json:"version"`
	Code     string `json:"code"`
}

// Response is the decoded reply from the execution service.
type Response struct {
	// Output is the program output, possibly containing ANSI colour codes.
	Output string
	// HasOutput is false when the reply carried no output or an empty one.
	HasOutput bool
	// Data holds the raw data object, for diagnostics.
	Data map[string]any
}

// Client executes requests.
//
// Implementations must be safe for concurrent use and must honour
// cancellation and deadlines on ctx.
type Client interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// Options configures a Client created through the registry.
type Options struct {
	// Endpoint is the service URL. Empty means DefaultEndpoint.
	Endpoint string
	// HTTPClient overrides the transport used by the http backend.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// ClientFactory creates a Client.
type ClientFactory func(opts Options) (Client, error)

// ClientRegistry maps backend names to their factory functions.
var ClientRegistry = make(map[string]ClientFactory)

func init() {
	ClientRegistry["http"] = func(opts Options) (Client, error) {
		return NewHTTPClient(opts.Endpoint, opts.HTTPClient, opts.Logger), nil
	}
	ClientRegistry["local"] = func(opts Options) (Client, error) {
		return NewLocalClient(opts.Logger), nil
	}
}

// GetClient retrieves a backend by name and creates an instance.
func GetClient(name string, opts Options) (Client, error) {
	factory, ok := ClientRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown runner backend: %s (available: %s)", name, strings.Join(ClientNames(), ", "))
	}
	return factory(opts)
}

// ClientNames returns the registered backend names, sorted.
func ClientNames() []string {
	names := make([]string, 0, len(ClientRegistry))
	for name := range ClientRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
