// Config loading for the shoretrace CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackendURL      = "backend_url"
	cfgKeyStalenessWindow = "staleness_window"
	cfgKeyControlTarget   = "control_target"
	cfgKeyJournalDir      = "journal_dir"

	// EnvConfigDir overrides the config directory location.
	envConfigDir = "SHORETRACE_CONFIG_DIR"

	defaultConfigDirName = ".shoretrace"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Shoretrace CLI configuration

# Base URL of the shoreline backend
backend_url: http://localhost:5000

# Maximum age of a bulk status snapshot before it is refetched
staleness_window: 5m

# Target number of editable control points per trace
control_target: 50

# Directory for the local review journal (default: <config dir>/journal)
# journal_dir:
`

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > SHORETRACE_CONFIG_DIR env >
// $(CWD)/.shoretrace.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return filepath.Abs(flagConfigDir)
	}
	if env := os.Getenv(envConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultConfigDirName), nil
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackendURL, types.DefaultBackendURL)
	v.SetDefault(cfgKeyStalenessWindow, types.DefaultStalenessWindow)
	v.SetDefault(cfgKeyControlTarget, types.DefaultControlTarget)
	v.SetDefault(cfgKeyJournalDir, filepath.Join(configDir, "journal"))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return types.Config{
		BackendURL:      v.GetString(cfgKeyBackendURL),
		StalenessWindow: v.GetDuration(cfgKeyStalenessWindow),
		ControlTarget:   v.GetInt(cfgKeyControlTarget),
		JournalDir:      v.GetString(cfgKeyJournalDir),
	}, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes the default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileName+"."+configFileType)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
