package config

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigPath_EndsWithFileName(t *testing.T) {
	t.Parallel()

	path := DefaultConfigPath()
	assert.Equal(t, configFileName, filepath.Base(path))
}

func TestDefaultDirs_Linux(t *testing.T) {
	if runtime.GOOS != platformLinux {
		t.Skip("linux-specific path layout")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	assert.Equal(t, filepath.Join("/custom/config", appName), DefaultConfigDir())
	assert.Equal(t, filepath.Join("/custom/data", appName), DefaultDataDir())
}

func TestDefaultDirs_LinuxFallback(t *testing.T) {
	if runtime.GOOS != platformLinux {
		t.Skip("linux-specific path layout")
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	cfgDir := DefaultConfigDir()
	require.NotEmpty(t, cfgDir)
	assert.Contains(t, cfgDir, filepath.Join(".config", appName))

	dataDir := DefaultDataDir()
	require.NotEmpty(t, dataDir)
	assert.Contains(t, dataDir, filepath.Join(".local", "share", appName))
}
