package command

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/joeycumines/codepad/internal/catalog"
	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/editor"
	"github.com/joeycumines/codepad/internal/prefs"
	"github.com/joeycumines/codepad/internal/storage"
)

// reportStorage prints storage degradation as a warning and passes every
// other error through.
func reportStorage(stderr io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, prefs.ErrStorageUnavailable) {
		warnStorage(stderr, err)
		return nil
	}
	return err
}

// LangCommand shows, lists and selects the editor language.
type LangCommand struct {
	*BaseCommand
	env *Env
}

// NewLangCommand creates a new lang command.
func NewLangCommand(env *Env) *LangCommand {
	return &LangCommand{
		BaseCommand: NewBaseCommand(
			"lang",
			"Show, list or select the editor language",
			"lang [list | set <id>]",
		),
		env: env,
	}
}

// Execute handles the lang subcommands.
func (c *LangCommand) Execute(args []string, stdout, stderr io.Writer) error {
	session, closeSession, err := c.env.openSession()
	if err != nil {
		return err
	}
	defer closeSession()

	current := session.Snapshot().Language

	switch {
	case len(args) == 0:
		_, _ = fmt.Fprintln(stdout, current)
		return nil

	case args[0] == "list" && len(args) == 1:
		rows := [][]string{{"", "ID", "LABEL", "RUNTIME"}}
		for _, lang := range catalog.Languages() {
			rt, _ := catalog.ServiceRuntime(lang.ID)
			rows = append(rows, []string{marker(lang.ID == current), lang.ID, lang.Label, rt.Language + " " + rt.Version})
		}
		return writeTable(stdout, rows)

	case args[0] == "set" && len(args) == 2:
		state, err := session.SetLanguage(args[1])
		if errors.Is(err, editor.ErrUnknownLanguage) {
			_, _ = fmt.Fprintln(stderr, "Use 'codepad lang list' to see available languages.")
			return err
		}
		if err := reportStorage(stderr, err); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Language set to %s\n", state.Language)
		return nil

	default:
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("invalid arguments")
	}
}

// ThemeCommand shows, lists and selects the editor theme.
type ThemeCommand struct {
	*BaseCommand
	env *Env
}

// NewThemeCommand creates a new theme command.
func NewThemeCommand(env *Env) *ThemeCommand {
	return &ThemeCommand{
		BaseCommand: NewBaseCommand(
			"theme",
			"Show, list or select the editor theme",
			"theme [list | set <id>]",
		),
		env: env,
	}
}

// Execute handles the theme subcommands.
func (c *ThemeCommand) Execute(args []string, stdout, stderr io.Writer) error {
	session, closeSession, err := c.env.openSession()
	if err != nil {
		return err
	}
	defer closeSession()

	current := session.Snapshot().Theme

	switch {
	case len(args) == 0:
		_, _ = fmt.Fprintln(stdout, current)
		return nil

	case args[0] == "list" && len(args) == 1:
		rows := [][]string{{"", "ID", "LABEL", "COLOR"}}
		for _, t := range catalog.Themes() {
			rows = append(rows, []string{marker(t.ID == current), t.ID, t.Label, t.Color})
		}
		return writeTable(stdout, rows)

	case args[0] == "set" && len(args) == 2:
		state, err := session.SetTheme(args[1])
		if errors.Is(err, editor.ErrUnknownTheme) {
			_, _ = fmt.Fprintln(stderr, "Use 'codepad theme list' to see available themes.")
			return err
		}
		if err := reportStorage(stderr, err); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Theme set to %s\n", state.Theme)
		return nil

	default:
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("invalid arguments")
	}
}

// FontSizeCommand shows or sets the editor font size.
type FontSizeCommand struct {
	*BaseCommand
	env *Env
}

// NewFontSizeCommand creates a new font-size command.
func NewFontSizeCommand(env *Env) *FontSizeCommand {
	return &FontSizeCommand{
		BaseCommand: NewBaseCommand(
			"font-size",
			"Show or set the editor font size",
			"font-size [n]",
		),
		env: env,
	}
}

// Execute shows or sets the font size.
func (c *FontSizeCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 1 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args[1:])
		return fmt.Errorf("unexpected arguments")
	}

	session, closeSession, err := c.env.openSession()
	if err != nil {
		return err
	}
	defer closeSession()

	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, session.Snapshot().FontSize)
		return nil
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid font size %q", args[0])
	}
	state, err := session.SetFontSize(size)
	if errors.Is(err, editor.ErrInvalidFontSize) {
		return err
	}
	if err := reportStorage(stderr, err); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Font size set to %d\n", state.FontSize)
	return nil
}

// CodeCommand manages the source text saved per language.
type CodeCommand struct {
	*BaseCommand
	env      *Env
	language string
	file     string
	code     string
}

// NewCodeCommand creates a new code command.
func NewCodeCommand(env *Env) *CodeCommand {
	return &CodeCommand{
		BaseCommand: NewBaseCommand(
			"code",
			"Show, save or clear the source saved for a language",
			"code [-lang id] [-file path | -c code] [show | save | clear | list]",
		),
		env: env,
	}
}

// SetupFlags configures the flags for the code command.
func (c *CodeCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.language, "lang", "", "Language (defaults to the current language)")
	fs.StringVar(&c.file, "file", "", "Source file to save (- for stdin)")
	fs.StringVar(&c.code, "c", "", "Source code to save")
}

// Execute handles the code subcommands.
func (c *CodeCommand) Execute(args []string, stdout, stderr io.Writer) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	if len(args) > 1 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args[1:])
		return fmt.Errorf("unexpected arguments")
	}

	store, closeStore, err := c.env.openPrefs()
	if err != nil {
		return err
	}
	defer closeStore()

	language := c.language
	if language == "" {
		p, _ := store.Load()
		language = p.Language
	}

	switch sub {
	case "show":
		code, ok := store.LoadCode(language)
		if !ok {
			_, _ = fmt.Fprintf(stderr, "No saved code for %s\n", language)
			return nil
		}
		_, err := io.WriteString(stdout, ensureNewline(code))
		return err

	case "save":
		if c.file != "" && c.code != "" {
			return fmt.Errorf("-file and -c are mutually exclusive")
		}
		file := c.file
		if file == "" && c.code == "" {
			file = "-"
		}
		source, _, err := readSource(file, c.code, c.env.stdin())
		if err != nil {
			return err
		}
		if err := reportStorage(stderr, store.SaveCode(language, source)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Saved %d bytes for %s\n", len(source), language)
		return nil

	case "clear":
		if err := reportStorage(stderr, store.ClearCode(language)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Cleared saved code for %s\n", language)
		return nil

	case "list":
		langs, err := store.SavedLanguages()
		if err := reportStorage(stderr, err); err != nil {
			return err
		}
		for _, lang := range langs {
			_, _ = fmt.Fprintln(stdout, lang)
		}
		return nil

	default:
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("unknown subcommand: %s", sub)
	}
}

// PrefsCommand prints the persisted preferences and the stores on disk.
type PrefsCommand struct {
	*BaseCommand
	env    *Env
	asJSON bool
}

// NewPrefsCommand creates a new prefs command.
func NewPrefsCommand(env *Env) *PrefsCommand {
	return &PrefsCommand{
		BaseCommand: NewBaseCommand(
			"prefs",
			"Show the persisted editor preferences",
			"prefs [-json]",
		),
		env: env,
	}
}

// SetupFlags configures the flags for the prefs command.
func (c *PrefsCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.asJSON, "json", false, "Output JSON")
}

type prefsDocument struct {
	prefs.Preferences
	Backend        string              `json:"backend"`
	SavedLanguages []string            `json:"savedLanguages"`
	Stores         []storage.StoreInfo `json:"stores,omitempty"`
}

// Execute prints the preferences.
func (c *PrefsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}

	store, closeStore, err := c.env.openPrefs()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.Load()
	if err := reportStorage(stderr, err); err != nil {
		return err
	}
	langs, err := store.SavedLanguages()
	if errors.Is(err, prefs.ErrStorageUnavailable) {
		err = nil
	}
	if err != nil {
		return err
	}

	doc := prefsDocument{
		Preferences:    p,
		Backend:        c.env.resolve(config.KeyStorageBackend),
		SavedLanguages: langs,
	}
	if doc.SavedLanguages == nil {
		doc.SavedLanguages = []string{}
	}
	if doc.Backend == "fs" {
		stores, err := storage.ScanStores()
		if err != nil {
			c.env.logger().Warn("failed to scan stores", "error", err)
		}
		doc.Stores = stores
	}

	if c.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	rows := [][]string{
		{"language", p.Language},
		{"theme", p.Theme},
		{"font-size", strconv.Itoa(p.FontSize)},
		{"backend", doc.Backend},
	}
	for _, lang := range doc.SavedLanguages {
		rows = append(rows, []string{"saved code", lang})
	}
	for _, s := range doc.Stores {
		state := "idle"
		if s.IsActive {
			state = "active"
		}
		rows = append(rows, []string{"store", fmt.Sprintf("%s (%s, %d bytes, %s)", s.ID, s.Path, s.Size, state)})
	}
	return writeTable(stdout, rows)
}

func marker(current bool) string {
	if current {
		return "*"
	}
	return " "
}
