// Package paths resolves the configuration directory location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDirName is the working-directory-relative config directory.
const DefaultConfigDirName = ".schemalab"

// ConfigFileName is the file read from and written to the config directory.
const ConfigFileName = "config.yaml"

// EnvConfigDir overrides the config directory when no flag is given.
const EnvConfigDir = "SCHEMALAB_CONFIG_DIR"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
	isDir         func(string) bool
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
	isDir: func(p string) bool {
		fi, err := os.Stat(p)
		return err == nil && fi.IsDir()
	},
}

// UserConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/schemalab (fallback ~/.config/schemalab)
// macOS:   ~/Library/Application Support/schemalab
// Windows: %APPDATA%/schemalab
func UserConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "schemalab"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "schemalab"), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schemalab"), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SCHEMALAB_CONFIG_DIR env > $(CWD)/.schemalab
// (when it exists) > UserConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, DefaultConfigDirName)
	if platformDir.isDir(local) {
		return local, nil
	}
	return UserConfigDir()
}

// ConfigFile returns the config file path inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
