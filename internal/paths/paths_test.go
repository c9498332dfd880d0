package paths

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := UserConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/schemalab", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		orig := platformDir.homeDir
		t.Cleanup(func() { platformDir.homeDir = orig })
		platformDir.homeDir = func() (string, error) { return "/home/test", nil }

		got, err := UserConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/schemalab", got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	orig := platformDir
	t.Cleanup(func() { platformDir = orig })
	platformDir.getwd = func() (string, error) { return "/work", nil }
	platformDir.isDir = func(p string) bool { return p == filepath.Join("/work", DefaultConfigDirName) }

	t.Run("flag wins over env", func(t *testing.T) {
		flag := t.TempDir()
		t.Setenv(EnvConfigDir, "/from/env")
		got, err := ResolveConfigDir(flag)
		require.NoError(t, err)
		assert.Equal(t, flag, got)
	})

	t.Run("env when no flag", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", got)
	})

	t.Run("relative flag is made absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("cfg")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "cfg", filepath.Base(got))
	})

	t.Run("working directory when it has a config dir", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/work", DefaultConfigDirName), got)
	})

	t.Run("user config dir otherwise", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		platformDir.getwd = func() (string, error) { return "/elsewhere", nil }
		platformDir.userConfigDir = func() (string, error) { return "/tmp/xdg-config", nil }
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/schemalab", got)
	})

	t.Run("getwd failure", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		platformDir.getwd = func() (string, error) { return "", errors.New("gone") }
		_, err := ResolveConfigDir("")
		assert.Error(t, err)
	})
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "config.yaml"), ConfigFile("a"))
}
