package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeGlobalConfig(t *testing.T, homeDir, content string) {
	t.Helper()
	writeFile(t, filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName), content)
}
