package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/codepad/internal/storage"
)

// SetKeyInFile sets key to value in section ("" for global) of the file at
// path, creating the file if needed. Other lines are kept as they are.
//
// An existing key line in the section is rewritten in place. A new key goes
// after the last non-blank line of its section; a missing section is
// appended. The file always ends with a newline.
func SetKeyInFile(path, section, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	entry := key
	if value != "" {
		entry += " " + value
	}

	current := ""
	start, end := -1, -1
	if section == "" {
		start, end = 0, 0
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := sectionName(trimmed); ok {
			current = name
			if name == section {
				start, end = i+1, i+1
			}
			continue
		}
		if current != section {
			continue
		}
		if trimmed == "" {
			continue
		}
		end = i + 1
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if k, _, _ := strings.Cut(trimmed, " "); k == key {
			lines[i] = entry
			return writeLines(path, lines)
		}
	}

	switch {
	case start < 0:
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "["+section+"]", entry)
	default:
		lines = append(lines[:end], append([]string{entry}, lines[end:]...)...)
	}
	return writeLines(path, lines)
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return storage.AtomicWriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
