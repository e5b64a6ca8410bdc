package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnv, "/tmp/codepad-test-config")

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/codepad-test-config", path)
}

func TestGetConfigPathDefault(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".codepad", "config"), path)
}

func TestEnsureConfigDirCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	t.Setenv(ConfigPathEnv, filepath.Join(dir, "config"))

	require.NoError(t, EnsureConfigDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureConfigDirFailsWhenParentIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	t.Setenv(ConfigPathEnv, filepath.Join(file, "config"))

	assert.Error(t, EnsureConfigDir())
}
