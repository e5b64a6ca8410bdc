package catalog

import (
	"sort"
)

// DefaultLanguage is the language selected when nothing is persisted.
const DefaultLanguage = "javascript"

// Runtime identifies a language runtime on the execution service.
type Runtime struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

// Language describes one selectable editor language.
type Language struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Icon    string  `json:"icon"`
	Runtime Runtime `json:"runtime"`
}

var languages = map[string]Language{
	"javascript": {
		ID:      "javascript",
		Label:   "JavaScript",
		Icon:    "vscode-icons:file-type-js-official",
		Runtime: Runtime{Language: "javascript", Version: "18.15.0"},
	},
	"typescript": {
		ID:      "typescript",
		Label:   "TypeScript",
		Icon:    "vscode-icons:file-type-typescript-official",
		Runtime: Runtime{Language: "typescript", Version: "5.0.3"},
	},
	"python": {
		ID:      "python",
		Label:   "Python",
		Icon:    "vscode-icons:file-type-python",
		Runtime: Runtime{Language: "python", Version: "3.10.0"},
	},
	"java": {
		ID:      "java",
		Label:   "Java",
		Icon:    "vscode-icons:file-type-java",
		Runtime: Runtime{Language: "java", Version: "15.0.2"},
	},
	"go": {
		ID:      "go",
		Label:   "Go",
		Icon:    "vscode-icons:file-type-go",
		Runtime: Runtime{Language: "go", Version: "1.16.2"},
	},
	"rust": {
		ID:      "rust",
		Label:   "Rust",
		Icon:    "vscode-icons:file-type-rust",
		Runtime: Runtime{Language: "rust", Version: "1.68.2"},
	},
	"cpp": {
		ID:      "cpp",
		Label:   "C++",
		Icon:    "vscode-icons:file-type-cpp",
		Runtime: Runtime{Language: "cpp", Version: "10.2.0"},
	},
	"csharp": {
		ID:      "csharp",
		Label:   "C#",
		Icon:    "vscode-icons:file-type-csharp",
		Runtime: Runtime{Language: "csharp", Version: "6.12.0"},
	},
	"ruby": {
		ID:      "ruby",
		Label:   "Ruby",
		Icon:    "vscode-icons:file-type-ruby",
		Runtime: Runtime{Language: "ruby", Version: "3.0.1"},
	},
	"swift": {
		ID:      "swift",
		Label:   "Swift",
		Icon:    "vscode-icons:file-type-swift",
		Runtime: Runtime{Language: "swift", Version: "5.3.3"},
	},
}

// LookupLanguage returns the language registered under id.
func LookupLanguage(id string) (Language, bool) {
	lang, ok := languages[id]
	return lang, ok
}

// Languages returns all registered languages sorted by ID.
func Languages() []Language {
	out := make([]Language, 0, len(languages))
	for _, lang := range languages {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ServiceRuntime returns the runtime to request from the execution service
// for the language id. The service knows JavaScript as "nodejs", so that
// name is always sent for "javascript", whatever the registry holds.
func ServiceRuntime(id string) (Runtime, bool) {
	lang, ok := languages[id]
	if !ok {
		return Runtime{}, false
	}
	rt := lang.Runtime
	if id == "javascript" || rt.Language == "javascript" {
		rt.Language = "nodejs"
	}
	return rt, true
}
