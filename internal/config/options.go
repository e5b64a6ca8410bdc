package config

// Option keys read by codepad.
const (
	KeyColor          = "color"
	KeyFormat         = "format"
	KeySave           = "save"
	KeyRunnerBackend  = "runner.backend"
	KeyRunnerEndpoint = "runner.endpoint"
	KeyRunnerTimeout  = "runner.timeout"
	KeyStorageBackend = "storage.backend"
	KeyStorageStore   = "storage.store"
	KeyLogFile        = "log.file"
	KeyLogLevel       = "log.level"
	KeyLogMaxSizeMB   = "log.max-size-mb"
	KeyLogMaxFiles    = "log.max-files"
)

var outputFormats = []string{"terminal", "html", "json", "plain"}

// DefaultSchema declares every codepad option.
func DefaultSchema() *Schema {
	return NewSchema(
		Option{Key: KeyColor, Type: TypeEnum, Values: []string{"auto", "always", "never"}, Default: "auto", EnvVar: "CODEPAD_COLOR", Description: "Colour terminal output"},
		Option{Key: KeyFormat, Type: TypeEnum, Values: outputFormats, Default: "terminal", Description: "Default output format"},

		Option{Key: KeyRunnerBackend, Type: TypeEnum, Values: []string{"http", "local"}, Default: "http", EnvVar: "CODEPAD_RUNNER", Description: "Runner backend"},
		Option{Key: KeyRunnerEndpoint, Default: "http://localhost:7777/code-runner/run", EnvVar: "CODEPAD_RUNNER_URL", Description: "Execution service URL"},
		Option{Key: KeyRunnerTimeout, Type: TypeDuration, Default: "0s", EnvVar: "CODEPAD_RUNNER_TIMEOUT", Description: "Per-run timeout, 0 for none"},

		Option{Key: KeyStorageBackend, Type: TypeEnum, Values: []string{"fs", "memory"}, Default: "fs", EnvVar: "CODEPAD_STORAGE", Description: "Preference storage backend"},
		Option{Key: KeyStorageStore, Default: "editor", Description: "Preference store name"},

		Option{Key: KeyLogFile, EnvVar: "CODEPAD_LOG_FILE", Description: "Log file path (JSON output)"},
		Option{Key: KeyLogLevel, Type: TypeEnum, Values: []string{"debug", "info", "warn", "error"}, Default: "info", EnvVar: "CODEPAD_LOG_LEVEL", Description: "Log level"},
		Option{Key: KeyLogMaxSizeMB, Type: TypeInt, Default: "10", Description: "Log file size in MB that triggers rotation"},
		Option{Key: KeyLogMaxFiles, Type: TypeInt, Default: "5", Description: "Rotated log files to keep"},

		Option{Section: "run", Key: KeyFormat, Type: TypeEnum, Values: outputFormats, Default: "terminal", Description: "Output format for run"},
		Option{Section: "run", Key: KeySave, Type: TypeBool, Default: "false", Description: "Save the source for the language on every run"},
		Option{Section: "render", Key: KeyFormat, Type: TypeEnum, Values: outputFormats, Default: "terminal", Description: "Output format for render"},
	)
}
