package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/taskstar/taskstar/internal/domain"
)

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		project   string
		global    string
		wantHost  string
		wantPort  int
		wantSched SchedulerConfig
	}{
		{
			name:      "defaults only",
			project:   `project = "app"`,
			wantHost:  DefaultServerHost,
			wantPort:  DefaultServerPort,
			wantSched: DefaultScheduler,
		},
		{
			name:      "global overrides defaults",
			project:   `project = "app"`,
			global:    "[server]\nhost = \"global\"\nport = 8000\n[scheduler]\nworkers = 4\n",
			wantHost:  "global",
			wantPort:  8000,
			wantSched: SchedulerConfig{Algorithm: domain.AlgorithmAStar, Workers: 4},
		},
		{
			name:      "project overrides global",
			project:   "project = \"app\"\n[server]\nport = 9000\n[scheduler]\nalgorithm = \"greedy\"\n",
			global:    "[server]\nhost = \"global\"\nport = 8000\n[scheduler]\nalgorithm = \"search\"\nworkers = 2\n",
			wantHost:  "global",
			wantPort:  9000,
			wantSched: SchedulerConfig{Algorithm: domain.AlgorithmGreedy, Workers: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectDir, homeDir := t.TempDir(), t.TempDir()
			writeFile(t, filepath.Join(projectDir, ConfigFileName), tt.project)
			if tt.global != "" {
				writeGlobalConfig(t, homeDir, tt.global)
			}

			cfg, err := ResolveConfigFrom(projectDir, homeDir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Project != "app" {
				t.Errorf("expected project 'app', got %q", cfg.Project)
			}
			if cfg.ServerHost != tt.wantHost || cfg.ServerPort != tt.wantPort {
				t.Errorf("expected %s:%d, got %s:%d", tt.wantHost, tt.wantPort, cfg.ServerHost, cfg.ServerPort)
			}
			if cfg.Scheduler != tt.wantSched {
				t.Errorf("expected scheduler %+v, got %+v", tt.wantSched, cfg.Scheduler)
			}
		})
	}
}

func TestResolve_NoProject(t *testing.T) {
	_, err := ResolveConfigFrom(t.TempDir(), t.TempDir())
	if !errors.Is(err, ErrNoProjectConfig) {
		t.Errorf("expected ErrNoProjectConfig, got %v", err)
	}
}

func TestResolve_InvalidGlobal(t *testing.T) {
	projectDir, homeDir := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(projectDir, ConfigFileName), `project = "app"`)
	writeGlobalConfig(t, homeDir, "not toml [")

	if _, err := ResolveConfigFrom(projectDir, homeDir); err == nil {
		t.Error("expected error for invalid global config")
	}
}

func TestResolveSchedulerConfig(t *testing.T) {
	homeDir := t.TempDir()
	writeGlobalConfig(t, homeDir, "[scheduler]\nworkers = 3\n")

	sched, err := ResolveSchedulerConfig(t.TempDir(), homeDir)
	if err != nil {
		t.Fatalf("unexpected error without a project: %v", err)
	}
	want := SchedulerConfig{Algorithm: domain.AlgorithmAStar, Workers: 3}
	if sched != want {
		t.Errorf("expected %+v, got %+v", want, sched)
	}

	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ConfigFileName), "project = \"app\"\n[scheduler]\nmax_expansions = 10\n")
	sched, err = ResolveSchedulerConfig(projectDir, homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want.MaxExpansions = 10
	if sched != want {
		t.Errorf("expected %+v, got %+v", want, sched)
	}
}
