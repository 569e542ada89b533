package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/G-Node/pandora/internal/paths"
	"github.com/G-Node/pandora/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLogLevel = "log_level"

	defaultBackend  = string(types.BackendContainerFile)
	defaultLogLevel = "warn"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	LogLevel string `yaml:"log_level"`
}

// loadConfig reads config.yaml from the resolved config directory. Flags
// bound to config keys take precedence over the file, which takes
// precedence over the defaults. A missing config.yaml is not an error.
func (a *app) loadConfig() (*viper.Viper, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.Set("config_dir", configDir)

	pf := a.root.PersistentFlags()
	if err := v.BindPFlag(cfgKeyBackend, pf.Lookup("backend")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag(cfgKeyLogLevel, pf.Lookup("log-level")); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// configDir returns the directory loadConfig resolved.
func (a *app) configDir() string { return a.cfg.GetString("config_dir") }

// backend returns the engine selected by flag or config.
func (a *app) backend() types.BackendKind {
	return types.BackendKind(a.cfg.GetString(cfgKeyBackend))
}

// dataDir resolves the directory holding named roots.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left alone.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, data, 0o644)
}
