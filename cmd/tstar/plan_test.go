package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/gantt"
	"github.com/taskstar/taskstar/internal/taskfile"
)

// writeExample writes the sample project to a file in a temp directory.
func writeExample(t *testing.T, name string) string {
	t.Helper()

	format, err := taskfile.FormatFromPath(name)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := taskfile.Write(&buf, taskfile.Example(), format); err != nil {
		t.Fatalf("failed to write example: %v", err)
	}

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPlan_Text(t *testing.T) {
	req := planRequest{Path: writeExample(t, "project.yaml"), Format: gantt.FormatText}

	var buf bytes.Buffer
	if err := runPlan(context.Background(), &buf, req, zap.NewNop()); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "astar, 1 worker") {
		t.Errorf("output should describe the default algorithm:\n%s", out)
	}
	if !regexp.MustCompile(`Makespan:\s+17`).MatchString(out) {
		t.Errorf("output missing makespan 17:\n%s", out)
	}
	if !regexp.MustCompile(`Total completion:\s+54`).MatchString(out) {
		t.Errorf("output missing total completion 54:\n%s", out)
	}
	if strings.Contains(out, "Schedule ") {
		t.Errorf("offline runs have no ID:\n%s", out)
	}
}

func TestRunPlan_EveryTaskFileFormat(t *testing.T) {
	for _, name := range []string{"project.yaml", "project.toml", "project.json", "project.hcl"} {
		t.Run(name, func(t *testing.T) {
			req := planRequest{Path: writeExample(t, name), Format: gantt.FormatJSON}

			var buf bytes.Buffer
			if err := runPlan(context.Background(), &buf, req, zap.NewNop()); err != nil {
				t.Fatalf("runPlan failed: %v", err)
			}

			var run domain.ScheduleRun
			if err := json.Unmarshal(buf.Bytes(), &run); err != nil {
				t.Fatalf("output is not a JSON run: %v", err)
			}
			if run.Metrics.Makespan != 17 || len(run.Entries) != 5 {
				t.Errorf("makespan = %d with %d entries, expected 17 with 5", run.Metrics.Makespan, len(run.Entries))
			}
		})
	}
}

func TestRunPlan_SVG(t *testing.T) {
	req := planRequest{
		Path:      writeExample(t, "project.yaml"),
		Algorithm: domain.AlgorithmGreedy,
		Format:    gantt.FormatSVG,
	}

	var buf bytes.Buffer
	if err := runPlan(context.Background(), &buf, req, zap.NewNop()); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("expected SVG output, got:\n%s", buf.String())
	}
}

func TestRunPlan_Compare(t *testing.T) {
	req := planRequest{Path: writeExample(t, "project.yaml"), Compare: true}

	var buf bytes.Buffer
	if err := runPlan(context.Background(), &buf, req, zap.NewNop()); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "greedy") {
		t.Errorf("comparison should include greedy:\n%s", out)
	}
	if !strings.Contains(out, "Best: astar (1 worker)") {
		t.Errorf("comparison should pick astar:\n%s", out)
	}
}

func TestRunPlan_CompareJSON(t *testing.T) {
	req := planRequest{
		Path:       writeExample(t, "project.yaml"),
		Compare:    true,
		Algorithms: []domain.Algorithm{domain.AlgorithmAStar, domain.AlgorithmGreedy, domain.AlgorithmSearch},
		Format:     gantt.FormatJSON,
	}

	var buf bytes.Buffer
	if err := runPlan(context.Background(), &buf, req, zap.NewNop()); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}

	var cmp domain.Comparison
	if err := json.Unmarshal(buf.Bytes(), &cmp); err != nil {
		t.Fatalf("output is not a JSON comparison: %v", err)
	}
	if len(cmp.Runs) != 3 {
		t.Fatalf("got %d runs, expected 3", len(cmp.Runs))
	}
	for _, run := range cmp.Runs {
		if run.Metrics.TotalCompletion != 54 {
			t.Errorf("%s total completion = %d, expected 54", run.Algorithm, run.Metrics.TotalCompletion)
		}
	}
	if cmp.Best != domain.AlgorithmAStar {
		t.Errorf("best = %s, expected astar", cmp.Best)
	}
}

func TestRunPlan_Errors(t *testing.T) {
	dir := t.TempDir()

	cyclic := filepath.Join(dir, "cyclic.yaml")
	os.WriteFile(cyclic, []byte(`tasks:
  - name: A
    duration: 1
    depends_on: [B]
  - name: B
    duration: 1
    depends_on: [A]
`), 0644)

	unknown := filepath.Join(dir, "unknown.yaml")
	os.WriteFile(unknown, []byte(`tasks:
  - name: A
    duration: 1
    depends_on: [Z]
`), 0644)

	badExt := filepath.Join(dir, "tasks.txt")
	os.WriteFile(badExt, []byte("A 1"), 0644)

	tests := []struct {
		name string
		path string
		algo domain.Algorithm
	}{
		{name: "cycle", path: cyclic},
		{name: "unknown dependency", path: unknown},
		{name: "unknown format", path: badExt},
		{name: "unknown algorithm", path: writeExample(t, "project.yaml"), algo: "dijkstra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := planRequest{Path: tt.path, Algorithm: tt.algo}

			err := runPlan(context.Background(), &bytes.Buffer{}, req, zap.NewNop())
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := mapErrorToExitCode(err); code != ExitInvalid {
				t.Errorf("exit code = %d, expected %d (err: %v)", code, ExitInvalid, err)
			}
		})
	}
}

func TestRunPlan_MissingFile(t *testing.T) {
	req := planRequest{Path: filepath.Join(t.TempDir(), "missing.yaml")}

	if err := runPlan(context.Background(), &bytes.Buffer{}, req, zap.NewNop()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func writeTaskFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
