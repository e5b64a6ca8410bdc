package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRegisterAndLookup(t *testing.T) {
	t.Parallel()
	s := NewSchema(
		Option{Key: "color", Default: "auto"},
		Option{Key: "format", Section: "run"},
	)
	s.Register(Option{Key: "color", Default: "never"})

	opt, ok := s.Lookup("", "color")
	require.True(t, ok)
	assert.Equal(t, "never", opt.Default, "re-registering replaces")

	_, ok = s.Lookup("run", "format")
	assert.True(t, ok)
	_, ok = s.Lookup("", "format")
	assert.False(t, ok)
	_, ok = s.Lookup("missing", "format")
	assert.False(t, ok)
}

func TestOptionCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		opt     Option
		value   string
		wantErr string
	}{
		{Option{Type: TypeString}, "anything", ""},
		{Option{}, "anything", ""},
		{Option{Type: TypeBool}, "yes", ""},
		{Option{Type: TypeBool}, "perhaps", `expected bool, got "perhaps"`},
		{Option{Type: TypeInt}, "42", ""},
		{Option{Type: TypeInt}, "4.2", `expected int, got "4.2"`},
		{Option{Type: TypeDuration}, "1m30s", ""},
		{Option{Type: TypeDuration}, "90", `expected duration, got "90"`},
		{Option{Type: TypeEnum, Values: []string{"auto", "never"}}, "never", ""},
		{Option{Type: TypeEnum, Values: []string{"auto", "never"}}, "sometimes", `expected one of auto, never, got "sometimes"`},
		{Option{Type: "mystery"}, "x", `unknown option type "mystery"`},
	}
	for _, tt := range tests {
		err := tt.opt.Check(tt.value)
		if tt.wantErr == "" {
			assert.NoError(t, err, "%s %q", tt.opt.Type, tt.value)
		} else {
			assert.EqualError(t, err, tt.wantErr)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()

	c := NewConfig()
	c.Set("", KeyRunnerBackend, "local")
	c.Set("", KeyLogMaxFiles, "3")
	c.Set("run", KeySave, "true")
	c.Set("run", KeyColor, "always")
	c.Set("run", KeyRunnerTimeout, "45s")
	assert.Empty(t, s.Validate(c))

	c.Set("", KeyLogMaxFiles, "three")
	c.Set("", "bogus", "1")
	c.Set("render", KeySave, "true")
	c.Set("run", KeyRunnerTimeout, "45")
	assert.Equal(t, []string{
		`global option "log.max-files": expected int, got "three"`,
		`option in [run] "runner.timeout": expected duration, got "45"`,
		`unknown global option "bogus"`,
		`unknown option in [render] "save"`,
	}, s.Validate(c))
}

func TestDefaultSchema(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()

	for _, key := range []string{
		KeyColor, KeyFormat, KeyRunnerBackend, KeyRunnerEndpoint, KeyRunnerTimeout,
		KeyStorageBackend, KeyStorageStore, KeyLogFile, KeyLogLevel, KeyLogMaxSizeMB, KeyLogMaxFiles,
	} {
		_, ok := s.Lookup("", key)
		assert.True(t, ok, key)
	}
	endpoint, _ := s.Lookup("", KeyRunnerEndpoint)
	assert.Equal(t, "http://localhost:7777/code-runner/run", endpoint.Default)
	assert.Equal(t, "CODEPAD_RUNNER_URL", endpoint.EnvVar)
	timeout, _ := s.Lookup("", KeyRunnerTimeout)
	assert.Equal(t, TypeDuration, timeout.Type)
	assert.Equal(t, "CODEPAD_RUNNER_TIMEOUT", timeout.EnvVar)

	for _, o := range s.options {
		if o.Default == "" {
			continue
		}
		assert.NoError(t, o.Check(o.Default), "[%s] %s", o.Section, o.Key)
	}
}

func TestSchemaResolve(t *testing.T) {
	s := NewSchema(
		Option{Key: "endpoint", Default: "http://default", EnvVar: "CODEPAD_TEST_RESOLVE"},
		Option{Key: "color", Default: "auto"},
	)

	c := NewConfig()
	c.Set("", "endpoint", "http://config")
	c.Set("", "color", "always")

	assert.Equal(t, "http://config", s.Resolve(c, "endpoint"))
	assert.True(t, s.Explicit(c, "endpoint"))
	assert.False(t, s.Explicit(NewConfig(), "endpoint"))

	t.Setenv("CODEPAD_TEST_RESOLVE", "http://env")
	assert.Equal(t, "http://env", s.Resolve(c, "endpoint"))
	assert.True(t, s.Explicit(NewConfig(), "endpoint"))

	t.Setenv("CODEPAD_TEST_RESOLVE", "")
	assert.Equal(t, "", s.Resolve(c, "endpoint"), "empty env still overrides")

	assert.Equal(t, "always", s.Resolve(c, "color"))

	os.Unsetenv("CODEPAD_TEST_RESOLVE")
	assert.Equal(t, "http://default", s.Resolve(NewConfig(), "endpoint"))
	assert.Equal(t, "", s.Resolve(NewConfig(), "nonexistent"))
}

func TestSchemaResolveCommand(t *testing.T) {
	s := DefaultSchema()

	c := NewConfig()
	assert.Equal(t, "terminal", s.ResolveCommand(c, "run", KeyFormat))
	assert.Equal(t, "false", s.ResolveCommand(c, "run", KeySave))

	c.Set("", KeyFormat, "json")
	assert.Equal(t, "json", s.ResolveCommand(c, "run", KeyFormat))

	c.Set("run", KeyFormat, "html")
	assert.Equal(t, "html", s.ResolveCommand(c, "run", KeyFormat))
	assert.Equal(t, "json", s.ResolveCommand(c, "render", KeyFormat))

	c.Set("run", KeySave, "yes")
	assert.Equal(t, "yes", s.ResolveCommand(c, "run", KeySave))
	assert.Equal(t, "", s.ResolveCommand(c, "run", "nonexistent"))
}

func TestSchemaDuration(t *testing.T) {
	s := DefaultSchema()
	unsetenv(t, "CODEPAD_RUNNER_TIMEOUT")

	c := NewConfig()
	d, err := s.Duration(c, "run", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Zero(t, d)

	c.Set("", KeyRunnerTimeout, "2s")
	d, err = s.Duration(c, "run", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	c.Set("run", KeyRunnerTimeout, "250ms")
	d, err = s.Duration(c, "run", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d, "the command section wins")
	d, err = s.Duration(c, "", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	t.Setenv("CODEPAD_RUNNER_TIMEOUT", "1m")
	d, err = s.Duration(c, "", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	t.Setenv("CODEPAD_RUNNER_TIMEOUT", "")
	d, err = s.Duration(c, "", KeyRunnerTimeout)
	require.NoError(t, err)
	assert.Zero(t, d)

	c.Set("run", KeyRunnerTimeout, "30")
	_, err = s.Duration(c, "run", KeyRunnerTimeout)
	assert.EqualError(t, err, `invalid runner.timeout "30": expected a duration such as 30s`)

	c.Set("run", KeyRunnerTimeout, "-1s")
	_, err = s.Duration(c, "run", KeyRunnerTimeout)
	assert.EqualError(t, err, `invalid runner.timeout "-1s": must not be negative`)
}

func TestSchemaInt(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()

	c := NewConfig()
	n, err := s.Int(c, "", KeyLogMaxFiles)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	c.Set("", KeyLogMaxFiles, " 2 ")
	n, err = s.Int(c, "", KeyLogMaxFiles)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c.Set("", KeyLogMaxSizeMB, "big")
	_, err = s.Int(c, "", KeyLogMaxSizeMB)
	assert.EqualError(t, err, `invalid log.max-size-mb "big": expected an integer`)
}

func TestFormatHelp(t *testing.T) {
	t.Parallel()
	help := DefaultSchema().FormatHelp()

	assert.Contains(t, help, "Global Options:")
	assert.Contains(t, help, "\n[render] Options:\n")
	assert.Contains(t, help, "\n[run] Options:\n")
	assert.Less(t, strings.Index(help, "[render]"), strings.Index(help, "[run]"))
	assert.Contains(t, help, "env: CODEPAD_RUNNER_URL")
	assert.Contains(t, help, "one of: auto|always|never")
	assert.Contains(t, help, "type: duration, default: 0s, env: CODEPAD_RUNNER_TIMEOUT")

	assert.Equal(t, "Global Options:\n", NewSchema().FormatHelp())
}

// unsetenv clears key for the duration of the test, restoring it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
