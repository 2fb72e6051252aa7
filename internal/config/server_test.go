package config

import (
	"path/filepath"
	"testing"
)

func TestLoadServerConfigFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := LoadServerConfigFrom(func(string) string { return "" }, "/home/u")

		if cfg.Bind != "localhost:7433" {
			t.Errorf("expected default bind, got %q", cfg.Bind)
		}
		if cfg.DataDir != filepath.Join("/home/u", ".taskstar", "projects") {
			t.Errorf("unexpected data dir %q", cfg.DataDir)
		}
		if cfg.LogLevel != "info" || cfg.LogFormat != "json" || cfg.LogOutput != "stderr" {
			t.Errorf("unexpected log settings %+v", cfg)
		}
	})

	t.Run("environment", func(t *testing.T) {
		env := map[string]string{
			EnvBind:      "0.0.0.0:9000",
			EnvDataDir:   "/var/lib/taskstar",
			EnvLogLevel:  "debug",
			EnvLogFormat: "console",
			EnvLogOutput: "/var/log/taskstar.log",
		}
		cfg := LoadServerConfigFrom(func(k string) string { return env[k] }, "/home/u")

		want := ServerConfig{
			Bind:      "0.0.0.0:9000",
			DataDir:   "/var/lib/taskstar",
			LogLevel:  "debug",
			LogFormat: "console",
			LogOutput: "/var/log/taskstar.log",
		}
		if *cfg != want {
			t.Errorf("expected %+v, got %+v", want, *cfg)
		}
	})
}

func TestLoadServerConfig_ReadsEnv(t *testing.T) {
	t.Setenv(EnvBind, "127.0.0.1:1234")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bind != "127.0.0.1:1234" {
		t.Errorf("expected bind from env, got %q", cfg.Bind)
	}
}
