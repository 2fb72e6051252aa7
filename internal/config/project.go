package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/taskstar/taskstar/internal/domain"
)

const (
	// ConfigFileName is the name of the project configuration file
	ConfigFileName = "taskstar.toml"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7433
)

// ErrNoProjectConfig is returned when no taskstar.toml is found.
var ErrNoProjectConfig = errors.New("No taskstar.toml found. Run 'tstar init <name>' to create one.")

// SchedulerConfig holds the [scheduler] defaults. Zero values are unset.
type SchedulerConfig struct {
	Algorithm     domain.Algorithm `toml:"algorithm"`
	Workers       int              `toml:"workers"`
	MaxExpansions int              `toml:"max_expansions"`
}

// Validate checks the values that are set.
func (s SchedulerConfig) Validate() error {
	if s.Algorithm != "" && !s.Algorithm.IsValid() {
		return fmt.Errorf("invalid scheduler algorithm %q: must be one of %v", s.Algorithm, domain.ValidAlgorithms)
	}
	if s.Workers != 0 && !domain.ValidWorkers(s.Workers) {
		return fmt.Errorf("invalid scheduler workers %d: must be between 1 and %d", s.Workers, domain.MaxWorkers)
	}
	if s.MaxExpansions < 0 {
		return fmt.Errorf("invalid scheduler max_expansions %d: must not be negative", s.MaxExpansions)
	}
	return nil
}

// merge overlays the set values of o onto s.
func (s SchedulerConfig) merge(o SchedulerConfig) SchedulerConfig {
	if o.Algorithm != "" {
		s.Algorithm = o.Algorithm
	}
	if o.Workers != 0 {
		s.Workers = o.Workers
	}
	if o.MaxExpansions != 0 {
		s.MaxExpansions = o.MaxExpansions
	}
	return s
}

// ProjectConfig represents the project-level configuration from taskstar.toml
type ProjectConfig struct {
	Project    string
	ServerHost string
	ServerPort int
	Scheduler  SchedulerConfig

	// Track whether values were explicitly set in config file
	hostExplicitlySet bool
	portExplicitlySet bool
}

// projectConfigFile represents the raw TOML structure
type projectConfigFile struct {
	Project   string          `toml:"project"`
	Server    serverConfig    `toml:"server"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// serverConfig represents the [server] section in TOML
type serverConfig struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

// DiscoverProjectConfig finds and parses the taskstar.toml file by traversing
// up the directory tree from the current working directory.
func DiscoverProjectConfig() (*ProjectConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return DiscoverProjectConfigFrom(cwd)
}

// DiscoverProjectConfigFrom searches for taskstar.toml starting from startDir.
func DiscoverProjectConfigFrom(startDir string) (*ProjectConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseProjectConfig(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return nil, ErrNoProjectConfig
		}
		dir = parent
	}
}

// ParseProjectConfig parses the taskstar.toml file at the given path
func ParseProjectConfig(path string) (*ProjectConfig, error) {
	var rawConfig projectConfigFile
	if _, err := toml.DecodeFile(path, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if rawConfig.Project == "" {
		return nil, errors.New("project name cannot be empty")
	}

	if rawConfig.Server.Port != nil {
		if err := validatePort(*rawConfig.Server.Port); err != nil {
			return nil, err
		}
	}
	if err := rawConfig.Scheduler.Validate(); err != nil {
		return nil, err
	}

	cfg := &ProjectConfig{
		Project:    rawConfig.Project,
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,
		Scheduler:  rawConfig.Scheduler,
	}

	if rawConfig.Server.Host != "" {
		cfg.ServerHost = rawConfig.Server.Host
		cfg.hostExplicitlySet = true
	}
	if rawConfig.Server.Port != nil {
		cfg.ServerPort = *rawConfig.Server.Port
		cfg.portExplicitlySet = true
	}

	return cfg, nil
}

// WriteProjectConfig writes a new taskstar.toml into dir. Empty host and zero
// port are left out.
func WriteProjectConfig(dir, project, host string, port int) (string, error) {
	if project == "" {
		return "", errors.New("project name is required")
	}
	if port != 0 {
		if err := validatePort(port); err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists in this directory", ConfigFileName)
	}

	out := projectFileOut{Project: project}
	if host != "" || port != 0 {
		out.Server = &serverOut{Host: host, Port: port}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(out); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

type projectFileOut struct {
	Project string     `toml:"project"`
	Server  *serverOut `toml:"server,omitempty"`
}

type serverOut struct {
	Host string `toml:"host,omitempty"`
	Port int    `toml:"port,omitempty"`
}

// HostExplicitlySet returns true if the host was explicitly set in the config file
func (c *ProjectConfig) HostExplicitlySet() bool {
	return c.hostExplicitlySet
}

// PortExplicitlySet returns true if the port was explicitly set in the config file
func (c *ProjectConfig) PortExplicitlySet() bool {
	return c.portExplicitlySet
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
