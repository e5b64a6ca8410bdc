// Package prefs persists the editor preferences (language, theme, font size)
// and the last-edited source text of each language to a storage.Backend.
//
// Reads never fail the caller: missing or invalid values resolve to
// defaults. Writes report ErrStorageUnavailable when the backend is absent or
// rejects the write, but the value is still remembered for the rest of the
// process, so callers that choose to ignore the error keep working against
// in-memory state.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joeycumines/codepad/internal/catalog"
	"github.com/joeycumines/codepad/internal/storage"
)

// Storage keys.
const (
	KeyLanguage   = "editor-language"
	KeyTheme      = "editor-theme"
	KeyFontSize   = "editor-font-size"
	codeKeyPrefix = "editor-code-"
)

// DefaultFontSize is the font size used when nothing valid is persisted.
const DefaultFontSize = 16

// ErrStorageUnavailable reports that durable storage could not be used.
var ErrStorageUnavailable = errors.New("preference storage unavailable")

// Preferences is the persisted subset of the editor session.
type Preferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
}

// Defaults returns the preferences used when nothing is persisted.
func Defaults() Preferences {
	return Preferences{
		Language: catalog.DefaultLanguage,
		Theme:    catalog.DefaultTheme,
		FontSize: DefaultFontSize,
	}
}

// CodeKey returns the storage key holding the source text for language.
func CodeKey(language string) string {
	return codeKeyPrefix + language
}

// Store reads and writes preferences. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	overlay map[string]string
	// cleared holds keys deleted during this process, so a failed delete
	// does not resurrect the backend's copy.
	cleared map[string]bool
	logger  *slog.Logger
}

// New creates a Store over backend. A nil backend models an environment
// without storage access: reads yield defaults and writes report
// ErrStorageUnavailable.
func New(backend storage.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		overlay: make(map[string]string),
		cleared: make(map[string]bool),
		logger:  logger,
	}
}

// Load returns the persisted preferences with defaults filled in. The
// returned Preferences is always usable; the error is non-nil only when the
// backend could not be read, and then wraps ErrStorageUnavailable.
func (s *Store) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Defaults()
	var errs []error

	if v, ok, err := s.get(KeyLanguage); err != nil {
		errs = append(errs, err)
	} else if ok && v != "" {
		p.Language = v
	}

	if v, ok, err := s.get(KeyTheme); err != nil {
		errs = append(errs, err)
	} else if ok && v != "" {
		p.Theme = v
	}

	if v, ok, err := s.get(KeyFontSize); err != nil {
		errs = append(errs, err)
	} else if ok && v != "" {
		size, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil || size <= 0 {
			s.logger.Warn("ignoring invalid persisted font size", "value", v)
		} else {
			p.FontSize = size
		}
	}

	if s.backend == nil {
		return p, ErrStorageUnavailable
	}
	if len(errs) > 0 {
		return p, fmt.Errorf("%w: %w", ErrStorageUnavailable, errors.Join(errs...))
	}
	return p, nil
}

// SaveLanguage persists the selected language. The value is not validated.
func (s *Store) SaveLanguage(language string) error {
	return s.set(KeyLanguage, language)
}

// SaveTheme persists the selected theme. The value is not validated.
func (s *Store) SaveTheme(theme string) error {
	return s.set(KeyTheme, theme)
}

// SaveFontSize persists the font size.
func (s *Store) SaveFontSize(size int) error {
	return s.set(KeyFontSize, strconv.Itoa(size))
}

// SaveCode persists the source text for language.
func (s *Store) SaveCode(language, code string) error {
	return s.set(CodeKey(language), code)
}

// LoadCode returns the source text saved for language, if any.
func (s *Store) LoadCode(language string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok, err := s.get(CodeKey(language))
	if err != nil {
		s.logger.Warn("failed to read saved code", "language", language, "error", err)
		return "", false
	}
	return v, ok
}

// ClearCode forgets the source text saved for language.
func (s *Store) ClearCode(language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := CodeKey(language)
	delete(s.overlay, key)
	s.cleared[key] = true
	if s.backend == nil {
		return ErrStorageUnavailable
	}
	if err := s.backend.Delete(key); err != nil {
		s.logger.Warn("failed to clear saved code", "language", language, "error", err)
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// SavedLanguages lists the languages that have saved source text, sorted.
func (s *Store) SavedLanguages() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for key := range s.overlay {
		if lang, ok := strings.CutPrefix(key, codeKeyPrefix); ok {
			seen[lang] = true
		}
	}

	var err error
	if s.backend == nil {
		err = ErrStorageUnavailable
	} else if keys, kerr := s.backend.Keys(); kerr != nil {
		err = fmt.Errorf("%w: %w", ErrStorageUnavailable, kerr)
	} else {
		for _, key := range keys {
			if s.cleared[key] {
				continue
			}
			if lang, ok := strings.CutPrefix(key, codeKeyPrefix); ok {
				seen[lang] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out, err
}

// get reads key, preferring values written during this process.
// Must be called with s.mu held.
func (s *Store) get(key string) (string, bool, error) {
	if v, ok := s.overlay[key]; ok {
		return v, true, nil
	}
	if s.backend == nil || s.cleared[key] {
		return "", false, nil
	}
	v, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.Warn("failed to read preference", "key", key, "error", err)
		return "", false, err
	}
	return v, ok, nil
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlay[key] = value
	delete(s.cleared, key)
	if s.backend == nil {
		return ErrStorageUnavailable
	}
	if err := s.backend.Set(key, value); err != nil {
		s.logger.Warn("failed to persist preference", "key", key, "error", err)
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}
