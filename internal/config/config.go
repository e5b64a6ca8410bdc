// Package config loads the codepad configuration file.
//
// The file is line oriented. Each line is "key value", where the value is
// the rest of the line. A "[name]" line starts a section whose keys apply to
// the command of that name only. Lines starting with "#" are comments.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config holds the raw values read from a configuration file.
type Config struct {
	// Global holds keys that appear before the first section.
	Global map[string]string
	// Commands holds the keys of each [section], by section name.
	Commands map[string]map[string]string
	// Warnings lists problems found while loading. They never fail a load.
	Warnings []string
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
	}
}

// Load reads the file at GetConfigPath. A missing file is an empty config.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the file at path. A missing file is an empty config;
// a symlink is refused.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader parses a configuration. Malformed lines become warnings;
// values are not checked here, see Schema.Validate.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := NewConfig()
	section := ""

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, ok := sectionName(line); ok {
			if name == "" {
				c.warn("line %d: empty section header", n)
			} else if c.Commands[name] == nil {
				c.Commands[name] = make(map[string]string)
			}
			section = name
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		if strings.ContainsAny(key, "[]=") {
			c.warn("line %d: invalid key %q", n, key)
			continue
		}
		c.Set(section, key, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return c, nil
}

// sectionName reports whether line is a "[name]" header.
func sectionName(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Get returns the raw value of key in section, "" being the global section.
// Nothing falls back: see Schema.Resolve for that.
func (c *Config) Get(section, key string) (string, bool) {
	if section == "" {
		v, ok := c.Global[key]
		return v, ok
	}
	v, ok := c.Commands[section][key]
	return v, ok
}

// Set stores value under key in section, "" being the global section.
func (c *Config) Set(section, key, value string) {
	if section == "" {
		c.Global[key] = value
		return
	}
	if c.Commands[section] == nil {
		c.Commands[section] = make(map[string]string)
	}
	c.Commands[section][key] = value
}

// ParseBool accepts true/false, 1/0, yes/no and on/off in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}
