package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// absRoot returns an absolute path usable as an install root on any platform.
func absRoot(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		return `C:\apps\mycoolapp`
	}

	return "/opt/mycoolapp"
}

// TestValidate checks required fields and defaulting for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing install root.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Relative install root.
	cfg = &Config{
		InstallRoot: "relative/path",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults filled.
	cfg = &Config{
		InstallRoot: absRoot(t),
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.InstallRoot, "packages"), cfg.PackagesFolder)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		InstallRoot: absRoot(t),
		LogLevel:    "debug",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.InstallRoot, loaded.InstallRoot)
	require.Equal(t, "debug", loaded.LogLevel)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
