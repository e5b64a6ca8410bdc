package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joeycumines/codepad/internal/ansi"
	"github.com/joeycumines/codepad/internal/config"
)

// RenderCommand renders ANSI-coloured text from files or stdin.
type RenderCommand struct {
	*BaseCommand
	env    *Env
	format string
	colors bool
}

// NewRenderCommand creates a new render command.
func NewRenderCommand(env *Env) *RenderCommand {
	return &RenderCommand{
		BaseCommand: NewBaseCommand(
			"render",
			"Render ANSI-coloured output as terminal text, HTML, JSON or plain text",
			"render [-format terminal|html|json|plain] [-colors] [file...]",
		),
		env: env,
	}
}

// SetupFlags configures the flags for the render command.
func (c *RenderCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "Output format: terminal, html, json, plain")
	fs.BoolVar(&c.colors, "colors", false, "List the recognised colour codes")
}

// Execute renders each file in turn, or stdin when no file is given.
func (c *RenderCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if c.colors {
		return c.listColors(stdout)
	}

	format := c.format
	if format == "" {
		format = c.env.resolveCommand("render", config.KeyFormat)
	}
	if err := validateFormat(format); err != nil {
		return err
	}
	color := c.env.colorEnabled(stdout)

	if len(args) == 0 {
		data, err := io.ReadAll(c.env.stdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return writeOutput(stdout, format, string(data), color, outputDocument{})
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := writeOutput(stdout, format, string(data), color, outputDocument{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *RenderCommand) listColors(stdout io.Writer) error {
	color := c.env.colorEnabled(stdout)
	rows := [][]string{{"CODE", "COLOR", "CLASS", "SAMPLE"}}
	for _, col := range ansi.Colors() {
		sample := ansi.Terminal([]ansi.Fragment{{Text: "sample", Color: col}}, color)
		rows = append(rows, []string{strconv.Itoa(col.Code()), col.Label(), col.Class(), sample})
	}
	return writeTable(stdout, rows)
}
