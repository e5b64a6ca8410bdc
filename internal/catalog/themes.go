package catalog

// DefaultTheme is the theme selected when nothing is persisted.
const DefaultTheme = "vs-dark"

// Theme describes one selectable editor theme.
type Theme struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var themes = []Theme{
	{ID: "vs-dark", Label: "VS Dark", Color: "#1e1e1e"},
	{ID: "vs-light", Label: "VS Light", Color: "#ffffff"},
	{ID: "github-dark", Label: "GitHub Dark", Color: "#0d1117"},
	{ID: "monokai", Label: "Monokai", Color: "#272822"},
	{ID: "solarized-dark", Label: "Solarized Dark", Color: "#002b36"},
}

// Themes returns the registered themes in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// LookupTheme returns the theme registered under id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
