// Package paths resolves where the pandora CLI keeps its configuration and
// which file or directory a named root lives at.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/G-Node/pandora/pkg/types"
)

// AppName names the per-user configuration and data directories.
const AppName = "pandora"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".pandora"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PANDORA_CONFIG_DIR"
	EnvDataDir   = "PANDORA_DATA_DIR"
)

// ContainerExt is appended to root names on the container-file engine.
const ContainerExt = ".pandora.db"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/pandora (fallback ~/.config/pandora)
// macOS:   ~/Library/Application Support/pandora
// Windows: %APPDATA%/pandora
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userDir()
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/pandora (fallback ~/.local/share/pandora)
// macOS and Windows: same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return userDir()
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

func userDir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PANDORA_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the directory holding named roots following the
// precedence chain: flag > config.yaml data_dir > PANDORA_DATA_DIR >
// $(CWD)/.pandora.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, dir := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// RootPath maps a root reference to the path the engine opens. A bare name
// is placed in dataDir: a container file gets ContainerExt, a directory tree
// uses the name as is. A reference that already is a path (absolute, or
// holding a separator) is returned cleaned and unchanged otherwise.
func RootPath(dataDir, ref string, kind types.BackendKind) string {
	if filepath.IsAbs(ref) || strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') {
		return filepath.Clean(ref)
	}
	if kind == types.BackendContainerFile && !strings.HasSuffix(ref, ContainerExt) {
		ref += ContainerExt
	}
	return filepath.Join(dataDir, ref)
}
