package config

import (
	"testing"

	"github.com/taskstar/taskstar/internal/domain"
)

func TestGlobal_FileExists(t *testing.T) {
	homeDir := t.TempDir()
	writeGlobalConfig(t, homeDir, `
[server]
host = "global-host.example.com"
port = 9999

[scheduler]
algorithm = "search"
`)

	cfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerHost != "global-host.example.com" {
		t.Errorf("expected host 'global-host.example.com', got '%s'", cfg.ServerHost)
	}
	if cfg.ServerPort != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.ServerPort)
	}
	if cfg.Scheduler.Algorithm != domain.AlgorithmSearch {
		t.Errorf("expected algorithm search, got %q", cfg.Scheduler.Algorithm)
	}
}

func TestGlobal_FileNotExists(t *testing.T) {
	cfg, err := LoadGlobalConfigFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error when config doesn't exist, got: %v", err)
	}

	if cfg.ServerHost != "" || cfg.ServerPort != 0 || cfg.Scheduler != (SchedulerConfig{}) {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestGlobal_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", "[server\nhost = "},
		{"invalid port", "[server]\nport = 0\n"},
		{"invalid workers", "[scheduler]\nworkers = -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			homeDir := t.TempDir()
			writeGlobalConfig(t, homeDir, tt.content)

			if _, err := LoadGlobalConfigFromDir(homeDir); err == nil {
				t.Error("expected error")
			}
		})
	}
}
