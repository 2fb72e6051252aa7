package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".taskstar"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"
)

// GlobalConfig represents the user-level configuration from ~/.taskstar/config.toml
type GlobalConfig struct {
	ServerHost string
	ServerPort int
	Scheduler  SchedulerConfig
}

type globalConfigFile struct {
	Server    serverConfig    `toml:"server"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// LoadGlobalConfig loads the global configuration from ~/.taskstar/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	configPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}

	var rawConfig globalConfigFile
	if _, err := toml.DecodeFile(configPath, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse global config TOML: %w", err)
	}

	if rawConfig.Server.Port != nil {
		if err := validatePort(*rawConfig.Server.Port); err != nil {
			return nil, err
		}
	}
	if err := rawConfig.Scheduler.Validate(); err != nil {
		return nil, err
	}

	cfg := &GlobalConfig{
		ServerHost: rawConfig.Server.Host,
		Scheduler:  rawConfig.Scheduler,
	}

	if rawConfig.Server.Port != nil {
		cfg.ServerPort = *rawConfig.Server.Port
	}

	return cfg, nil
}
