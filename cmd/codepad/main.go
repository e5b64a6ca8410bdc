package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joeycumines/codepad/internal/command"
	"github.com/joeycumines/codepad/internal/config"
	"github.com/joeycumines/codepad/internal/logging"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, nil); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run executes one invocation. env, when non-nil, supplies test overrides;
// its Config and Logger are replaced with the resolved ones.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, env *command.Env) error {
	global := flag.NewFlagSet("codepad", flag.ContinueOnError)
	global.SetOutput(stderr)
	var logOpts logging.Options
	global.StringVar(&logOpts.File, "log-file", "", "Write JSON logs to this file")
	global.StringVar(&logOpts.Level, "log-level", "", "Log level: debug, info, warn, error")
	if err := global.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			return err
		}
		args = []string{"help"}
	} else {
		args = global.Args()
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
		cfg = config.NewConfig()
	}

	logger, err := logging.New(logOpts, cfg, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	if env == nil {
		env = &command.Env{}
	}
	env.Config = cfg
	env.Logger = logger.Logger
	if env.Stdin == nil {
		env.Stdin = stdin
	}

	registry := command.NewRegistry()
	helpCmd := command.NewHelpCommand(registry)
	registry.Register(helpCmd)
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(cfg))
	registry.Register(command.NewInitCommand())
	registry.Register(command.NewRunCommand(env))
	registry.Register(command.NewLangCommand(env))
	registry.Register(command.NewThemeCommand(env))
	registry.Register(command.NewFontSizeCommand(env))
	registry.Register(command.NewCodeCommand(env))
	registry.Register(command.NewRenderCommand(env))
	registry.Register(command.NewPrefsCommand(env))

	if len(args) == 0 {
		return helpCmd.Execute(nil, stdout, stderr)
	}

	cmdName := args[0]
	if cmdName == "-h" || cmdName == "--help" {
		return helpCmd.Execute(nil, stdout, stderr)
	}

	cmd, err := registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		_, _ = fmt.Fprintln(stderr, "Use 'codepad help' to see available commands.")
		return err
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", cmd.Usage())
		_, _ = fmt.Fprintf(stderr, "\n%s\n\n", cmd.Description())
		_, _ = fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	cmd.SetupFlags(fs)

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	return cmd.Execute(fs.Args(), stdout, stderr)
}
