package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/domain"
)

func sampleRun() *domain.ScheduleRun {
	entries := []domain.ScheduleEntry{
		{TaskID: "t1", Name: "Design", Start: 0, End: 3, Worker: 0},
		{TaskID: "t2", Name: "Backend", Start: 3, End: 8, Worker: 0},
	}
	return &domain.ScheduleRun{
		ID:        "run1",
		Algorithm: domain.AlgorithmAStar,
		Workers:   1,
		Metrics:   domain.ComputeMetrics(entries, 1),
		Entries:   entries,
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestPrintTask(t *testing.T) {
	desc := "Sketch the UI"
	task := &domain.Task{
		ID:          "abc123",
		Name:        "Design",
		Duration:    3,
		Description: &desc,
		CreatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	printTask(&buf, task, false)
	out := buf.String()

	for _, want := range []string{"abc123", "Design", "Sketch the UI", "2024-01-15 10:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("printTask output missing %q:\n%s", want, out)
		}
	}
	if !regexp.MustCompile(`Duration:\s+3`).MatchString(out) {
		t.Errorf("printTask output missing duration:\n%s", out)
	}
}

func TestPrintTask_JSON(t *testing.T) {
	task := &domain.Task{ID: "abc123", Name: "Design", Duration: 3}

	var buf bytes.Buffer
	printTask(&buf, task, true)

	var decoded domain.Task
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "abc123" || decoded.Duration != 3 {
		t.Errorf("decoded task = %+v", decoded)
	}
}

func TestPrintTaskList(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "t1", Name: "Design", Duration: 3},
		{ID: "t2", Name: "Backend", Duration: 5},
	}

	var buf bytes.Buffer
	printTaskList(&buf, tasks, client.Pagination{Page: 1, PerPage: 2, Total: 4, TotalPages: 2}, false)
	out := buf.String()

	if !strings.Contains(out, "Design") || !strings.Contains(out, "Backend") {
		t.Errorf("printTaskList output missing tasks:\n%s", out)
	}
	if !strings.Contains(out, "Page 1 of 2 (4 total tasks)") {
		t.Errorf("printTaskList output missing pagination:\n%s", out)
	}
}

func TestPrintTaskList_Empty(t *testing.T) {
	var buf bytes.Buffer
	printTaskList(&buf, nil, client.Pagination{}, false)

	if !strings.Contains(buf.String(), "No tasks found") {
		t.Errorf("printTaskList output = %q, expected 'No tasks found'", buf.String())
	}
}

func TestPrintDependencies(t *testing.T) {
	deps := []domain.Dependency{{ChildID: "t5", ParentID: "t2"}}
	names := map[string]string{"t2": "Frontend"}

	var buf bytes.Buffer
	printDependencies(&buf, "Testing", deps, names, false)
	out := buf.String()

	if !strings.Contains(out, "t2") || !strings.Contains(out, "Frontend") {
		t.Errorf("printDependencies output:\n%s", out)
	}

	buf.Reset()
	printDependencies(&buf, "Design", nil, nil, false)
	if !strings.Contains(buf.String(), "Task Design has no dependencies") {
		t.Errorf("printDependencies output = %q", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	field := "duration"
	oldVal := "3"
	newVal := "4"
	entries := []domain.AuditEntry{
		{
			ID:        1,
			TaskID:    "t1",
			Action:    domain.ActionCreate,
			ChangedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			ChangedBy: "user@host:/path",
		},
		{
			ID:        2,
			TaskID:    "t1",
			Action:    domain.ActionUpdate,
			Field:     &field,
			OldValue:  &oldVal,
			NewValue:  &newVal,
			ChangedAt: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			ChangedBy: "user@host:/path",
		},
	}

	var buf bytes.Buffer
	printHistory(&buf, entries, false)
	out := buf.String()

	for _, want := range []string{"create", "update", "duration", "user@host:/path"} {
		if !strings.Contains(out, want) {
			t.Errorf("printHistory output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printHistory(&buf, nil, false)
	if !strings.Contains(buf.String(), "No history found") {
		t.Errorf("printHistory output = %q", buf.String())
	}
}

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, sampleRun(), false); err != nil {
		t.Fatalf("printRun failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Schedule run1") {
		t.Errorf("printRun output missing ID:\n%s", out)
	}
	if !strings.Contains(out, "Design") || !strings.Contains(out, "Backend") {
		t.Errorf("printRun output missing chart rows:\n%s", out)
	}
	if !regexp.MustCompile(`Makespan:\s+8`).MatchString(out) {
		t.Errorf("printRun output missing makespan:\n%s", out)
	}
	if !regexp.MustCompile(`Total completion:\s+11`).MatchString(out) {
		t.Errorf("printRun output missing total completion:\n%s", out)
	}
	if strings.Contains(out, "Optimal") {
		t.Errorf("printRun should only report optimality for search:\n%s", out)
	}
}

func TestPrintRunList(t *testing.T) {
	var buf bytes.Buffer
	printRunList(&buf, []*domain.ScheduleRun{sampleRun()}, client.Pagination{Page: 1, TotalPages: 1}, false)
	out := buf.String()

	if !strings.Contains(out, "run1") || !strings.Contains(out, "astar") {
		t.Errorf("printRunList output:\n%s", out)
	}

	buf.Reset()
	printRunList(&buf, nil, client.Pagination{}, false)
	if !strings.Contains(buf.String(), "No schedules found") {
		t.Errorf("printRunList output = %q", buf.String())
	}
}

func TestPrintComparison(t *testing.T) {
	astar := *sampleRun()
	greedy := *sampleRun()
	greedy.Algorithm = domain.AlgorithmGreedy

	cmp := &domain.Comparison{
		Workers: 2,
		Best:    domain.AlgorithmAStar,
		Runs:    []domain.ScheduleRun{astar, greedy},
	}

	var buf bytes.Buffer
	printComparison(&buf, cmp, false)
	out := buf.String()

	if !regexp.MustCompile(`(?m)^\*\s+astar`).MatchString(out) {
		t.Errorf("printComparison should mark astar as best:\n%s", out)
	}
	if !strings.Contains(out, "Best: astar (2 workers)") {
		t.Errorf("printComparison output missing summary:\n%s", out)
	}
}

func TestWorkerCount(t *testing.T) {
	if got := workerCount(1); got != "1 worker" {
		t.Errorf("workerCount(1) = %q", got)
	}
	if got := workerCount(3); got != "3 workers" {
		t.Errorf("workerCount(3) = %q", got)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"), false)
	if buf.String() != "Error: boom\n" {
		t.Errorf("printError output = %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.New("boom"), true)
	var decoded struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Error.Message != "boom" {
		t.Errorf("error message = %q, expected boom", decoded.Error.Message)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
