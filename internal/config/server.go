package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Server environment variables.
const (
	EnvBind      = "TASKSTAR_BIND"
	EnvDataDir   = "TASKSTAR_DATA_DIR"
	EnvLogLevel  = "TASKSTAR_LOG_LEVEL"
	EnvLogFormat = "TASKSTAR_LOG_FORMAT"
	EnvLogOutput = "TASKSTAR_LOG_OUTPUT"
)

// ProjectsDir is where project databases live under the global config dir.
const ProjectsDir = "projects"

// ServerConfig configures the taskstar server process.
type ServerConfig struct {
	Bind      string
	DataDir   string
	LogLevel  string
	LogFormat string
	// LogOutput is stdout, stderr, or a file path.
	LogOutput string
}

// LoadServerConfig reads the server configuration from the environment.
func LoadServerConfig() (*ServerConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadServerConfigFrom(os.Getenv, homeDir), nil
}

// LoadServerConfigFrom builds the server configuration from getenv, with
// defaults rooted at homeDir.
func LoadServerConfigFrom(getenv func(string) string, homeDir string) *ServerConfig {
	cfg := &ServerConfig{
		Bind:      fmt.Sprintf("%s:%d", DefaultServerHost, DefaultServerPort),
		DataDir:   filepath.Join(homeDir, GlobalConfigDir, ProjectsDir),
		LogLevel:  "info",
		LogFormat: "json",
		LogOutput: "stderr",
	}

	if v := getenv(EnvBind); v != "" {
		cfg.Bind = v
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv(EnvLogOutput); v != "" {
		cfg.LogOutput = v
	}
	return cfg
}
