package config

import (
	"errors"
	"os"

	"github.com/taskstar/taskstar/internal/domain"
)

// DefaultScheduler is used for any [scheduler] value no config file sets.
var DefaultScheduler = SchedulerConfig{
	Algorithm: domain.DefaultAlgorithm,
	Workers:   domain.DefaultWorkers,
}

// ResolvedConfig represents the final merged configuration with all
// precedence rules applied. Precedence order (highest to lowest):
// 1. Project config (taskstar.toml)
// 2. Global config (~/.taskstar/config.toml)
// 3. Built-in defaults (localhost:7433, astar on one worker)
type ResolvedConfig struct {
	Project    string
	ServerHost string
	ServerPort int
	Scheduler  SchedulerConfig
}

// ResolveConfig discovers the project config, loads the global config,
// and merges them according to precedence rules.
func ResolveConfig() (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return ResolveConfigFrom(cwd, homeDir)
}

// ResolveConfigFrom resolves config discovering the project file from
// startDir and reading the global file under homeDir.
func ResolveConfigFrom(startDir, homeDir string) (*ResolvedConfig, error) {
	projectCfg, err := DiscoverProjectConfigFrom(startDir)
	if err != nil {
		return nil, err
	}

	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	return merge(globalCfg, projectCfg), nil
}

// ResolveSchedulerConfig returns the scheduler defaults without requiring a
// project. A missing taskstar.toml is not an error.
func ResolveSchedulerConfig(startDir, homeDir string) (SchedulerConfig, error) {
	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return SchedulerConfig{}, err
	}

	projectCfg, err := DiscoverProjectConfigFrom(startDir)
	if errors.Is(err, ErrNoProjectConfig) {
		return DefaultScheduler.merge(globalCfg.Scheduler), nil
	}
	if err != nil {
		return SchedulerConfig{}, err
	}
	return merge(globalCfg, projectCfg).Scheduler, nil
}

// merge applies defaults, then global, then explicitly set project values.
func merge(globalCfg *GlobalConfig, projectCfg *ProjectConfig) *ResolvedConfig {
	resolved := &ResolvedConfig{
		Project:    projectCfg.Project,
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,
		Scheduler:  DefaultScheduler.merge(globalCfg.Scheduler).merge(projectCfg.Scheduler),
	}

	if globalCfg.ServerHost != "" {
		resolved.ServerHost = globalCfg.ServerHost
	}
	if globalCfg.ServerPort != 0 {
		resolved.ServerPort = globalCfg.ServerPort
	}

	if projectCfg.HostExplicitlySet() {
		resolved.ServerHost = projectCfg.ServerHost
	}
	if projectCfg.PortExplicitlySet() {
		resolved.ServerPort = projectCfg.ServerPort
	}

	return resolved
}
