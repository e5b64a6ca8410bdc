package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/editor"
	"github.com/joeycumines/codepad/internal/prefs"
	"github.com/joeycumines/codepad/internal/runner"
	"github.com/joeycumines/codepad/internal/storage"
)

// Env carries what the editor commands share: configuration, the logger and
// process I/O. Fields left nil get process defaults.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader

	// IsTerminal reports whether w is an interactive terminal.
	IsTerminal func(w io.Writer) bool
	// Context creates the context for blocking work. Defaults to one
	// cancelled on SIGINT or SIGTERM.
	Context func() (context.Context, context.CancelFunc)
	// Client overrides the configured runner backend.
	Client runner.Client
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		e.Config = config.NewConfig()
	}
	return e.Config
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Env) stdin() io.Reader {
	if e.Stdin == nil {
		return os.Stdin
	}
	return e.Stdin
}

func (e *Env) resolve(key string) string {
	return config.DefaultSchema().Resolve(e.config(), key)
}

func (e *Env) resolveCommand(section, key string) string {
	return config.DefaultSchema().ResolveCommand(e.config(), section, key)
}

func (e *Env) context() (context.Context, context.CancelFunc) {
	if e.Context != nil {
		return e.Context()
	}
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// colorEnabled applies the color option: always, never, or auto (a terminal
// and NO_COLOR unset).
func (e *Env) colorEnabled(w io.Writer) bool {
	switch e.resolve(config.KeyColor) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if e.IsTerminal != nil {
		return e.IsTerminal(w)
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// openPrefs opens the configured preference store. A backend that cannot be
// opened (locked by another process, unwritable directory) is logged and the
// store runs without durable storage. Only an unknown backend name fails.
func (e *Env) openPrefs() (*prefs.Store, func(), error) {
	name := e.resolve(config.KeyStorageBackend)
	storeID := e.resolve(config.KeyStorageStore)
	if storeID == "" {
		storeID = storage.DefaultStoreID
	}
	backend, err := storage.GetBackend(name, storeID)
	if errors.Is(err, storage.ErrUnknownBackend) {
		return nil, nil, err
	}
	if err != nil {
		e.logger().Warn("preference storage unavailable, changes will not persist",
			"backend", name, "store", storeID, "error", err)
		return prefs.New(nil, e.logger()), func() {}, nil
	}

	closeFn := func() {
		if err := backend.Close(); err != nil {
			e.logger().Warn("failed to close preference storage", "error", err)
		}
	}
	return prefs.New(backend, e.logger()), closeFn, nil
}

func (e *Env) client() (runner.Client, error) {
	if e.Client != nil {
		return e.Client, nil
	}
	return runner.GetClient(e.resolve(config.KeyRunnerBackend), runner.Options{
		Endpoint: e.resolve(config.KeyRunnerEndpoint),
		Logger:   e.logger(),
	})
}

// openSession opens the preference store and builds an editor session on it.
// An invalid runner.timeout fails before anything is opened.
func (e *Env) openSession() (*editor.Session, func(), error) {
	timeout, err := config.DefaultSchema().Duration(e.config(), "run", config.KeyRunnerTimeout)
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := e.openPrefs()
	if err != nil {
		return nil, nil, err
	}
	client, err := e.client()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	session, err := editor.NewSession(editor.Options{
		Prefs:   store,
		Client:  client,
		Timeout: timeout,
		Logger:  e.logger(),
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return session, closeFn, nil
}
