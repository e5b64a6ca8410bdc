package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/storage"
)

// HelpCommand displays help information for commands.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(
			"help",
			"Display help information for commands",
			"help [command]",
		),
		registry: registry,
	}
}

// Execute displays help information.
func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "codepad - edit, run and render code from your terminal")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: codepad <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")

		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()

		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'codepad help <command>' for more information about a specific command (includes flags).")
		return nil
	}

	cmdName := args[0]
	cmd, err := c.registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: %s\n", cmd.Usage())

	// Show command-specific flags by invoking SetupFlags on a temporary FlagSet
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	buf := &bytes.Buffer{}
	fs.SetOutput(buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	if buf.Len() > 0 {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, buf.String())
	}

	return nil
}

// VersionCommand displays version information.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand(
			"version",
			"Display version information",
			"version",
		),
		version: version,
	}
}

// Execute displays version information.
func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	_, _ = fmt.Fprintf(stdout, "codepad version %s\n", c.version)
	return nil
}

// ConfigCommand manages configuration.
type ConfigCommand struct {
	*BaseCommand
	config     *config.Config
	configPath string
	section    string
	showGlobal bool
	showAll    bool
}

// NewConfigCommand creates a new config command. Set values are written to
// configPath, or to the GetConfigPath location when it is omitted.
func NewConfigCommand(cfg *config.Config, configPath ...string) *ConfigCommand {
	var path string
	if len(configPath) > 0 {
		path = configPath[0]
	}
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Manage configuration settings",
			"config [-section name] [key [value]] | validate | schema",
		),
		config:     cfg,
		configPath: path,
	}
}

// SetupFlags configures the flags for the config command.
func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.section, "section", "", "Read or write the key in this command's [section]")
	fs.BoolVar(&c.showGlobal, "global", false, "Show only global configuration")
	fs.BoolVar(&c.showAll, "all", false, "Show all configuration (global and command-specific)")
}

// Execute manages configuration.
func (c *ConfigCommand) Execute(args []string, stdout, stderr io.Writer) error {
	switch {
	case len(args) == 0 && c.showAll:
		c.printGlobal(stdout)
		_, _ = fmt.Fprintln(stdout, "\nCommand-specific configuration:")
		for _, name := range slices.Sorted(maps.Keys(c.config.Commands)) {
			_, _ = fmt.Fprintf(stdout, "  [%s]\n", name)
			printValues(stdout, "    ", c.config.Commands[name])
		}
		return nil
	case len(args) == 0 && c.showGlobal:
		c.printGlobal(stdout)
		return nil
	case len(args) == 0:
		_, _ = fmt.Fprintln(stdout, "Configuration management:")
		_, _ = fmt.Fprintln(stdout, "  config <key>                 - Get configuration value")
		_, _ = fmt.Fprintln(stdout, "  config <key> <value>         - Set configuration value")
		_, _ = fmt.Fprintln(stdout, "  config -section run <key>... - Use the [run] section")
		_, _ = fmt.Fprintln(stdout, "  config -global               - Show global configuration")
		_, _ = fmt.Fprintln(stdout, "  config -all                  - Show all configuration")
		_, _ = fmt.Fprintln(stdout, "  config validate              - Validate configuration")
		_, _ = fmt.Fprintln(stdout, "  config schema                - Show configuration schema")
		return nil
	case args[0] == "validate" && len(args) == 1:
		return c.executeValidate(stdout)
	case args[0] == "schema" && len(args) == 1:
		_, _ = fmt.Fprint(stdout, config.DefaultSchema().FormatHelp())
		return nil
	case len(args) == 1:
		c.executeGet(args[0], stdout)
		return nil
	case len(args) == 2:
		c.executeSet(args[0], args[1], stdout, stderr)
		return nil
	}

	_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
	return fmt.Errorf("invalid arguments")
}

func (c *ConfigCommand) printGlobal(stdout io.Writer) {
	_, _ = fmt.Fprintln(stdout, "Global configuration:")
	printValues(stdout, "  ", c.config.Global)
}

func printValues(w io.Writer, indent string, values map[string]string) {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", indent, key, values[key])
	}
}

// executeGet prints the effective value: environment, file, then default.
func (c *ConfigCommand) executeGet(key string, stdout io.Writer) {
	schema := config.DefaultSchema()
	var value string
	if c.section == "" {
		value = schema.Resolve(c.config, key)
	} else {
		value = schema.ResolveCommand(c.config, c.section, key)
	}
	_, set := c.config.Get(c.section, key)
	switch {
	case value != "" || set:
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", key, value)
	default:
		_, _ = fmt.Fprintf(stdout, "Configuration key '%s' not found\n", key)
	}
}

// executeSet stores the value in memory and in the config file. Unknown keys
// and invalid values are warned about but still written.
func (c *ConfigCommand) executeSet(key, value string, stdout, stderr io.Writer) {
	check := config.NewConfig()
	check.Set(c.section, key, value)
	for _, issue := range config.DefaultSchema().Validate(check) {
		_, _ = fmt.Fprintf(stderr, "Warning: %s\n", issue)
	}
	c.config.Set(c.section, key, value)

	configPath := c.configPath
	if configPath == "" {
		configPath, _ = config.GetConfigPath()
	}
	if configPath != "" {
		if err := config.SetKeyInFile(configPath, c.section, key, value); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: failed to persist config to disk: %v\n", err)
		}
	}

	if c.section != "" {
		key = "[" + c.section + "] " + key
	}
	_, _ = fmt.Fprintf(stdout, "Set configuration: %s = %s\n", key, value)
}

// executeValidate validates the current config against the schema.
func (c *ConfigCommand) executeValidate(stdout io.Writer) error {
	issues := config.DefaultSchema().Validate(c.config)
	issues = append(slices.Clone(c.config.Warnings), issues...)
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(stdout, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(stdout, "  - %s\n", issue)
	}
	return nil
}

// InitCommand writes a starter configuration file.
type InitCommand struct {
	*BaseCommand
	force bool
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand(
			"init",
			"Write a starter configuration file",
			"init [options]",
		),
	}
}

// SetupFlags configures the flags for the init command.
func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
}

const defaultConfigFile = `# codepad configuration file
# Format: optionName remainingLineIsTheValue
# Use [command_name] sections for command-specific options.
# Run 'codepad config schema' for every option.

# Terminal colours: auto, always, never
color auto

# Execution service
runner.backend http
runner.endpoint http://localhost:7777/code-runner/run
# runner.timeout 30s

# Preference storage: fs or memory
storage.backend fs

# log.file ~/.codepad/codepad.log
# log.level info

[run]
format terminal

[render]
format terminal
`

// Execute writes the configuration file.
func (c *InitCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Configuration already exists at: %s\n", configPath)
		_, _ = fmt.Fprintln(stdout, "Use -force to overwrite existing configuration")
		return nil
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := storage.AtomicWriteFile(configPath, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: Failed to load created config: %v\n", err)
	} else {
		for _, w := range append(cfg.Warnings, config.DefaultSchema().Validate(cfg)...) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(stdout, "Initialized codepad configuration at: %s\n", configPath)
	return nil
}
