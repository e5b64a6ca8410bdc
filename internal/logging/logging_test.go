package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/codepad/internal/config"
)

func clearLogEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CODEPAD_LOG_FILE", "CODEPAD_LOG_LEVEL"} {
		if v, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, v) })
		}
	}
}

func TestNew_StderrDefaultsToWarn(t *testing.T) {
	clearLogEnv(t)
	var buf bytes.Buffer

	l, err := New(Options{}, nil, &buf)
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, slog.LevelWarn, l.Level)
	l.Info("hidden")
	l.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")
}

func TestNew_FlagOverridesConfig(t *testing.T) {
	clearLogEnv(t)
	cfg := config.NewConfig()
	cfg.Set("", config.KeyLogLevel, "error")

	l, err := New(Options{Level: "debug"}, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l.Level)

	l, err = New(Options{}, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, l.Level)
}

func TestNew_EnvLevel(t *testing.T) {
	clearLogEnv(t)
	t.Setenv("CODEPAD_LOG_LEVEL", "info")

	l, err := New(Options{}, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l.Level)
}

func TestNew_InvalidLevel(t *testing.T) {
	clearLogEnv(t)
	_, err := New(Options{Level: "loud"}, nil, &bytes.Buffer{})
	assert.EqualError(t, err, "invalid log level: loud")
}

func TestNew_FileWritesJSON(t *testing.T) {
	clearLogEnv(t)
	path := filepath.Join(t.TempDir(), "codepad.log")
	cfg := config.NewConfig()
	cfg.Set("", config.KeyLogFile, path)
	var stderr bytes.Buffer

	l, err := New(Options{}, cfg, &stderr)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l.Level)
	l.Info("run finished", "run", "abc")
	require.NoError(t, l.Close())

	assert.Empty(t, stderr.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "run finished", rec["msg"])
	assert.Equal(t, "abc", rec["run"])
}

func TestNew_RotationSettings(t *testing.T) {
	clearLogEnv(t)
	cfg := config.NewConfig()
	cfg.Set("", config.KeyLogFile, filepath.Join(t.TempDir(), "codepad.log"))

	cfg.Set("", config.KeyLogMaxFiles, "few")
	_, err := New(Options{}, cfg, &bytes.Buffer{})
	assert.EqualError(t, err, `invalid log.max-files "few": expected an integer`)

	cfg.Set("", config.KeyLogMaxFiles, "0")
	cfg.Set("", config.KeyLogMaxSizeMB, "0")
	_, err = New(Options{}, cfg, &bytes.Buffer{})
	assert.EqualError(t, err, "invalid log.max-size-mb 0: must be positive")

	cfg.Set("", config.KeyLogMaxSizeMB, "1")
	l, err := New(Options{}, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("")
	assert.Error(t, err)
}
