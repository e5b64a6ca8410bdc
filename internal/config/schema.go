package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// OptionType is the value type of an option.
type OptionType string

// Option types. An empty type is a string.
const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "duration"
	TypeEnum     OptionType = "enum"
)

// Option declares one configuration key.
type Option struct {
	Key string
	// Section is the command the key belongs to, or "" for a global key.
	Section     string
	Type        OptionType
	Values      []string // accepted values of a TypeEnum option
	Default     string
	EnvVar      string // overrides the file when set, even to ""
	Description string
}

// Check reports whether value is acceptable for the option.
func (o Option) Check(value string) error {
	switch o.Type {
	case TypeString, "":
	case TypeEnum:
		if !slices.Contains(o.Values, value) {
			return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Values, ", "), value)
		}
	case TypeBool:
		if _, err := ParseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	return nil
}

type optionRef struct{ section, key string }

// Schema is the set of known options. It validates a Config and resolves
// the effective value of a key.
type Schema struct {
	options []Option
	index   map[optionRef]int
}

// NewSchema returns a schema declaring opts.
func NewSchema(opts ...Option) *Schema {
	s := &Schema{index: make(map[optionRef]int)}
	for _, opt := range opts {
		s.Register(opt)
	}
	return s
}

// Register declares opt, replacing an earlier option with the same section
// and key.
func (s *Schema) Register(opt Option) {
	ref := optionRef{opt.Section, opt.Key}
	if i, ok := s.index[ref]; ok {
		s.options[i] = opt
		return
	}
	s.index[ref] = len(s.options)
	s.options = append(s.options, opt)
}

// Lookup returns the option declared for key in section.
func (s *Schema) Lookup(section, key string) (Option, bool) {
	i, ok := s.index[optionRef{section, key}]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// option finds the declaration governing key in section. Global keys may
// also be set inside any section.
func (s *Schema) option(section, key string) (Option, bool) {
	if opt, ok := s.Lookup(section, key); ok {
		return opt, true
	}
	return s.Lookup("", key)
}

// Resolve returns the effective value of a global key: its environment
// variable, then the file, then the default.
func (s *Schema) Resolve(c *Config, key string) string {
	opt, known := s.Lookup("", key)
	if known && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if v, ok := c.Get("", key); ok {
		return v
	}
	return opt.Default
}

// ResolveCommand returns the effective value of key for the command named
// section. A value in the command's section wins, then the global
// resolution of key, then the section's default.
func (s *Schema) ResolveCommand(c *Config, section, key string) string {
	if v, ok := c.Get(section, key); ok {
		return v
	}
	if _, ok := s.Lookup("", key); ok {
		return s.Resolve(c, key)
	}
	opt, _ := s.Lookup(section, key)
	return opt.Default
}

// Explicit reports whether key was set by its environment variable or in
// the global section of c, as opposed to falling back to the default.
func (s *Schema) Explicit(c *Config, key string) bool {
	if opt, ok := s.Lookup("", key); ok && opt.EnvVar != "" {
		if _, ok := os.LookupEnv(opt.EnvVar); ok {
			return true
		}
	}
	_, ok := c.Get("", key)
	return ok
}

// Duration resolves key for section ("" for global) as a duration. An empty
// value is zero; an unparsable one is an error.
func (s *Schema) Duration(c *Config, section, key string) (time.Duration, error) {
	v := s.value(c, section, key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a duration such as 30s", key, v)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

// Int resolves key for section ("" for global) as an integer.
func (s *Schema) Int(c *Config, section, key string) (int, error) {
	v := s.value(c, section, key)
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected an integer", key, v)
	}
	return n, nil
}

func (s *Schema) value(c *Config, section, key string) string {
	if section == "" {
		return strings.TrimSpace(s.Resolve(c, key))
	}
	return strings.TrimSpace(s.ResolveCommand(c, section, key))
}

// Validate lists every unknown key and every value its option rejects,
// sorted. An empty result means c is valid.
func (s *Schema) Validate(c *Config) []string {
	var issues []string
	check := func(section, key, value string) {
		opt, ok := s.option(section, key)
		where := "global option"
		if section != "" {
			where = fmt.Sprintf("option in [%s]", section)
		}
		if !ok {
			issues = append(issues, fmt.Sprintf("unknown %s %q", where, key))
			return
		}
		if err := opt.Check(value); err != nil {
			issues = append(issues, fmt.Sprintf("%s %q: %v", where, key, err))
		}
	}

	for key, value := range c.Global {
		check("", key, value)
	}
	for section, values := range c.Commands {
		for key, value := range values {
			check(section, key, value)
		}
	}
	slices.Sort(issues)
	return issues
}

// FormatHelp describes every option, global options first, then each
// section in name order.
func (s *Schema) FormatHelp() string {
	var sections []string
	for _, o := range s.options {
		if o.Section != "" && !slices.Contains(sections, o.Section) {
			sections = append(sections, o.Section)
		}
	}
	slices.Sort(sections)

	var b strings.Builder
	b.WriteString("Global Options:\n")
	s.writeSection(&b, "")
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		s.writeSection(&b, sec)
	}
	return b.String()
}

func (s *Schema) writeSection(b *strings.Builder, section string) {
	for _, o := range s.options {
		if o.Section != section {
			continue
		}
		var notes []string
		switch {
		case o.Type == TypeEnum:
			notes = append(notes, "one of: "+strings.Join(o.Values, "|"))
		case o.Type != "" && o.Type != TypeString:
			notes = append(notes, "type: "+string(o.Type))
		}
		if o.Default != "" {
			notes = append(notes, "default: "+o.Default)
		}
		if o.EnvVar != "" {
			notes = append(notes, "env: "+o.EnvVar)
		}
		fmt.Fprintf(b, "  %-20s %s", o.Key, o.Description)
		if len(notes) > 0 {
			fmt.Fprintf(b, " (%s)", strings.Join(notes, ", "))
		}
		b.WriteByte('\n')
	}
}
