package ansi

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color is the foreground colour of a fragment.
type Color uint8

// Colours understood by the renderer. Default is the neutral light gray used
// before any escape code is seen.
const (
	Default Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = [...]string{
	Default: "default",
	Black:   "black",
	Red:     "red",
	Green:   "green",
	Yellow:  "yellow",
	Blue:    "blue",
	Magenta: "magenta",
	Cyan:    "cyan",
	White:   "white",
}

// Tailwind classes used by the HTML output.
var colorClasses = [...]string{
	Default: "text-gray-300",
	Black:   "text-black",
	Red:     "text-red-500",
	Green:   "text-green-500",
	Yellow:  "text-yellow-500",
	Blue:    "text-blue-500",
	Magenta: "text-purple-500",
	Cyan:    "text-cyan-500",
	White:   "text-white",
}

// sgrColors maps the literal SGR parameter to a colour. Lookup is on the
// literal digits, so "031" is not "31".
var sgrColors = map[string]Color{
	"30": Black,
	"31": Red,
	"32": Green,
	"33": Yellow,
	"34": Blue,
	"35": Magenta,
	"36": Cyan,
	"37": White,
	"39": Default,
}

var titleCaser = cases.Title(language.English)

// Colors returns every colour, Default first.
func Colors() []Color {
	return []Color{Default, Black, Red, Green, Yellow, Blue, Magenta, Cyan, White}
}

func (c Color) valid() bool {
	return int(c) < len(colorNames)
}

// String returns the lower-case colour name.
func (c Color) String() string {
	if !c.valid() {
		return "unknown"
	}
	return colorNames[c]
}

// Label returns the colour name for display.
func (c Color) Label() string {
	return titleCaser.String(c.String())
}

// Class returns the CSS class for the colour.
func (c Color) Class() string {
	if !c.valid() {
		return colorClasses[Default]
	}
	return colorClasses[c]
}

// Code returns the SGR parameter that selects the colour.
func (c Color) Code() int {
	if c == Default || !c.valid() {
		return 39
	}
	return 29 + int(c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	for i, name := range colorNames {
		if name == string(text) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown colour %q", text)
}

// terminal returns the terminal colour, or nil for Default.
func (c Color) terminal() color.Color {
	switch c {
	case Black:
		return lipgloss.Black
	case Red:
		return lipgloss.Red
	case Green:
		return lipgloss.Green
	case Yellow:
		return lipgloss.Yellow
	case Blue:
		return lipgloss.Blue
	case Magenta:
		return lipgloss.Magenta
	case Cyan:
		return lipgloss.Cyan
	case White:
		return lipgloss.White
	default:
		return nil
	}
}
