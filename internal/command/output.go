package command

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/joeycumines/codepad/internal/ansi"
)

// Output formats accepted by run and render.
const (
	formatTerminal = "terminal"
	formatHTML     = "html"
	formatJSON     = "json"
	formatPlain    = "plain"
)

var outputFormats = []string{formatTerminal, formatHTML, formatJSON, formatPlain}

func validateFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("invalid format %q: expected one of %s", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Green).Bold(true)

// outputDocument is the json rendering of program output.
type outputDocument struct {
	RunID     string          `json:"runId,omitempty"`
	Language  string          `json:"language,omitempty"`
	Output    string          `json:"output"`
	Plain     string          `json:"plain"`
	Fragments []ansi.Fragment `json:"fragments"`
}

// writeOutput renders program output in format. doc supplies the metadata
// for the json format; its Output field is ignored.
func writeOutput(w io.Writer, format, output string, color bool, doc outputDocument) error {
	fragments := ansi.Render(output)
	switch format {
	case formatTerminal:
		text := ansi.Terminal(fragments, color)
		if text == "" {
			return nil
		}
		_, err := io.WriteString(w, ensureNewline(text))
		return err
	case formatHTML:
		_, err := fmt.Fprintf(w, "<pre class=\"whitespace-pre-wrap\">%s</pre>\n", ansi.HTML(fragments))
		return err
	case formatJSON:
		doc.Output = output
		doc.Plain = ansi.Text(fragments)
		doc.Fragments = fragments
		if doc.Fragments == nil {
			doc.Fragments = []ansi.Fragment{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatPlain:
		text := ansi.Plain(output)
		if text == "" {
			return nil
		}
		_, err := io.WriteString(w, ensureNewline(text))
		return err
	default:
		return validateFormat(format)
	}
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
