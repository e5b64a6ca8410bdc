// Package editor holds the editor session: the selected language, theme and
// font size, the source text being edited, and the result of the last run.
//
// A Session is an explicitly owned value. All methods are safe for concurrent
// use and return a State snapshot that callers may keep.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joeycumines/codepad/internal/catalog"
	"github.com/joeycumines/codepad/internal/prefs"
	"github.com/joeycumines/codepad/internal/runner"
)

// Messages published as the run output.
const (
	MsgEmptyCode = "Please enter some code"
	MsgRunFailed = "Error running code"
)

var (
	// ErrRunInProgress is returned by Run while another run is outstanding.
	ErrRunInProgress = errors.New("a run is already in progress")

	// ErrUnknownLanguage is returned for language ids missing from the catalog.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrUnknownTheme is returned for theme ids missing from the catalog.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrInvalidFontSize is returned for font sizes below 1.
	ErrInvalidFontSize = errors.New("font size must be positive")
)

// State is a snapshot of a Session.
type State struct {
	Language  string `json:"language"`
	Theme     string `json:"theme"`
	FontSize  int    `json:"fontSize"`
	Code      string `json:"code"`
	Output    string `json:"output"`
	IsRunning bool   `json:"isRunning"`
	// RunID identifies the most recent run that reached the service.
	RunID string `json:"runId,omitempty"`
}

// Options configures a Session.
type Options struct {
	// Prefs persists preferences and per-language source. Required.
	Prefs *prefs.Store
	// Client executes runs. Required.
	Client runner.Client
	// Timeout bounds each run. Zero means no limit beyond the caller's
	// context.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Session is the editor state plus the collaborators used to persist it and
// to run code.
type Session struct {
	mu      sync.Mutex
	state   State
	prefs   *prefs.Store
	client  runner.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewSession creates a Session from the persisted preferences and restores
// the saved source for the selected language. Storage failures are logged
// and the session starts from defaults.
func NewSession(opts Options) (*Session, error) {
	if opts.Prefs == nil {
		return nil, errors.New("editor: preference store is required")
	}
	if opts.Client == nil {
		return nil, errors.New("editor: runner client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p, err := opts.Prefs.Load()
	if err != nil {
		logger.Warn("preferences unavailable, using defaults", "error", err)
	}

	s := &Session{
		state: State{
			Language: p.Language,
			Theme:    p.Theme,
			FontSize: p.FontSize,
		},
		prefs:   opts.Prefs,
		client:  opts.Client,
		timeout: opts.Timeout,
		logger:  logger,
	}
	if code, ok := opts.Prefs.LoadCode(p.Language); ok {
		s.state.Code = code
	}
	return s, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetCode replaces the source text being edited. It is not persisted.
func (s *Session) SetCode(code string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Code = code
	return s.state
}

// SaveCode persists the current source text for the current language.
func (s *Session) SaveCode() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.prefs.SaveCode(s.state.Language, s.state.Code)
	return s.state, err
}

// ClearCode empties the source text and forgets the saved copy.
func (s *Session) ClearCode() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Code = ""
	err := s.prefs.ClearCode(s.state.Language)
	return s.state, err
}

// SetLanguage switches language. Non-empty source for the outgoing language
// is saved first. The output is cleared and the saved source for the new
// language, if any, becomes the current source. Storage errors are returned
// after the switch has been applied in memory.
func (s *Session) SetLanguage(language string) (State, error) {
	if _, ok := catalog.LookupLanguage(language); !ok {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.state.Code != "" {
		if err := s.prefs.SaveCode(s.state.Language, s.state.Code); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.prefs.SaveLanguage(language); err != nil {
		errs = append(errs, err)
	}

	s.state.Language = language
	s.state.Output = ""
	s.state.Code = ""
	if code, ok := s.prefs.LoadCode(language); ok {
		s.state.Code = code
	}
	return s.state, errors.Join(errs...)
}

// SetTheme selects and persists a theme.
func (s *Session) SetTheme(theme string) (State, error) {
	if _, ok := catalog.LookupTheme(theme); !ok {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	return s.state, s.prefs.SaveTheme(theme)
}

// SetFontSize selects and persists a font size.
func (s *Session) SetFontSize(size int) (State, error) {
	if size < 1 {
		return s.Snapshot(), fmt.Errorf("%w: %d", ErrInvalidFontSize, size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FontSize = size
	return s.state, s.prefs.SaveFontSize(size)
}

// Run sends the current source to the execution service and publishes the
// result as the session output.
//
// Blank source publishes MsgEmptyCode without contacting the service. A
// failed request publishes MsgRunFailed and the cause is returned. A reply
// without output leaves the output empty. IsRunning is always false again
// when Run returns, and a Run started while another is outstanding returns
// ErrRunInProgress without touching the state. If the language changes
// while the request is outstanding, the result is still returned but the
// output is left to the new language.
func (s *Session) Run(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state.IsRunning {
		state := s.state
		s.mu.Unlock()
		return state, ErrRunInProgress
	}
	if strings.TrimSpace(s.state.Code) == "" {
		s.state.Output = MsgEmptyCode
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	s.state.IsRunning = true
	s.state.Output = ""
	s.state.RunID = uuid.NewString()
	language, code, runID := s.state.Language, s.state.Code, s.state.RunID
	s.mu.Unlock()

	logger := s.logger.With("run", runID, "language", language)
	start := time.Now()

	resp, err := s.execute(ctx, language, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsRunning = false

	// A language switch while the run was in flight owns the output now.
	stale := s.state.RunID != runID || s.state.Language != language

	if err != nil {
		logger.Warn("run failed", "error", err, "elapsed", time.Since(start), "stale", stale)
		if !stale {
			s.state.Output = MsgRunFailed
		}
		return s.state, fmt.Errorf("run %s: %w", runID, err)
	}

	logger.Info("run finished", "elapsed", time.Since(start), "hasOutput", resp.HasOutput, "stale", stale)
	if resp.HasOutput && !stale {
		s.state.Output = resp.Output
	}
	return s.state, nil
}

func (s *Session) execute(ctx context.Context, language, code string) (runner.Response, error) {
	rt, ok := catalog.ServiceRuntime(language)
	if !ok {
		return runner.Response{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.client.Execute(ctx, runner.Request{
		Language: rt.Language,
		Version:  rt.Version,
		Code:     code,
	})
}
