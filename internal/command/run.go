package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/editor"
	"github.com/joeycumines/codepad/internal/prefs"
)

// RunCommand sends source text to the execution service and prints the
// output.
type RunCommand struct {
	*BaseCommand
	env      *Env
	language string
	file     string
	code     string
	format   string
	save     bool
}

// NewRunCommand creates a new run command.
func NewRunCommand(env *Env) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run source code on the execution service",
			"run [-lang id] [-file path | -c code] [-format terminal|html|json|plain] [file]",
		),
		env: env,
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.language, "lang", "", "Switch to this language before running (persisted)")
	fs.StringVar(&c.file, "file", "", "Read source from file (- for stdin)")
	fs.StringVar(&c.code, "c", "", "Source code to run")
	fs.StringVar(&c.format, "format", "", "Output format: terminal, html, json, plain")
	fs.BoolVar(&c.save, "save", false, "Save the source for the language before running")
}

// Execute runs the code. Without -file, -c or a file argument the saved
// source for the current language is run.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 1 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args[1:])
		return fmt.Errorf("unexpected arguments")
	}
	if len(args) == 1 {
		if c.file != "" {
			return fmt.Errorf("-file and a file argument are mutually exclusive")
		}
		c.file = args[0]
	}
	if c.file != "" && c.code != "" {
		return fmt.Errorf("-file and -c are mutually exclusive")
	}

	format := c.format
	if format == "" {
		format = c.env.resolveCommand("run", config.KeyFormat)
	}
	if err := validateFormat(format); err != nil {
		return err
	}
	save := c.save
	if !save {
		save, _ = config.ParseBool(c.env.resolveCommand("run", config.KeySave))
	}

	session, closeSession, err := c.env.openSession()
	if err != nil {
		return err
	}
	defer closeSession()

	if c.language != "" {
		if _, err := session.SetLanguage(c.language); err != nil {
			if !errors.Is(err, prefs.ErrStorageUnavailable) {
				return err
			}
			warnStorage(stderr, err)
		}
	}

	source, ok, err := readSource(c.file, c.code, c.env.stdin())
	if err != nil {
		return err
	}
	if ok {
		session.SetCode(source)
	}
	if save {
		if _, err := session.SaveCode(); err != nil {
			warnStorage(stderr, err)
		}
	}

	ctx, cancel := c.env.context()
	defer cancel()

	state, runErr := session.Run(ctx)

	color := c.env.colorEnabled(stdout)
	if format == formatTerminal && runErr == nil && state.Output != "" && state.Output != editor.MsgEmptyCode {
		header := "Execution Successful"
		if c.env.colorEnabled(stderr) {
			header = successStyle.Render(header)
		}
		_, _ = fmt.Fprintln(stderr, header)
	}

	if err := writeOutput(stdout, format, state.Output, color, outputDocument{
		RunID:    state.RunID,
		Language: state.Language,
	}); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}
	return nil
}

// readSource returns the source from -file or -c. ok is false when neither
// was given.
func readSource(file, code string, stdin io.Reader) (string, bool, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read source: %w", err)
		}
		return string(data), true, nil
	case code != "":
		return code, true, nil
	default:
		return "", false, nil
	}
}

func warnStorage(stderr io.Writer, err error) {
	_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
}
