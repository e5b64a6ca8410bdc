// Package ansi converts program output containing SGR colour escapes
// (ESC [ n m) into coloured fragments, and renders fragments as HTML spans,
// terminal text or plain text.
package ansi

import (
	"html"
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	xansi "github.com/charmbracelet/x/ansi"
)

// Fragment is a run of text drawn in one colour.
type Fragment struct {
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

var sgrPattern = regexp.MustCompile("\x1b\\[(\\d+)m")

// Render splits text on SGR escapes and returns the visible segments in
// order, each tagged with the colour in effect. Escapes and empty segments
// produce no fragment. Codes outside the colour table leave the colour
// unchanged.
func Render(text string) []Fragment {
	var (
		fragments []Fragment
		current   = Default
		pos       int
	)
	emit := func(s string) {
		if s != "" {
			fragments = append(fragments, Fragment{Text: s, Color: current})
		}
	}
	for _, m := range sgrPattern.FindAllStringSubmatchIndex(text, -1) {
		emit(text[pos:m[0]])
		if c, ok := sgrColors[text[m[2]:m[3]]]; ok {
			current = c
		}
		pos = m[1]
	}
	emit(text[pos:])
	return fragments
}

// HTML renders fragments as a sequence of span elements carrying the colour
// class, with the text escaped.
func HTML(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(`<span class="`)
		b.WriteString(f.Color.Class())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(f.Text))
		b.WriteString("</span>")
	}
	return b.String()
}

// Terminal renders fragments for a terminal. When color is false the text is
// returned without any styling.
func Terminal(fragments []Fragment, color bool) string {
	var b strings.Builder
	for _, f := range fragments {
		fg := f.Color.terminal()
		if !color || fg == nil {
			b.WriteString(f.Text)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(fg).
			Inline(true).
			TabWidth(lipgloss.NoTabConversion)
		// Styling is applied per line so newlines stay outside the escapes.
		for i, line := range strings.Split(f.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

// Text concatenates the fragment text.
func Text(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Plain removes every escape sequence from text, not only colour codes.
func Plain(text string) string {
	return xansi.Strip(text)
}
