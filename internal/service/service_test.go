package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/store"
	"github.com/taskstar/taskstar/internal/store/sqlite"
)

type services struct {
	tasks     *TaskService
	deps      *DependencyService
	schedules *ScheduleService
	audit     *AuditService
}

func newServices(t *testing.T) services {
	t.Helper()
	m, err := store.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })

	db, err := m.GetDB("test")
	if err != nil {
		t.Fatalf("GetDB() error = %v", err)
	}

	taskRepo := sqlite.NewTaskRepository(db)
	depRepo := sqlite.NewDependencyRepository(db)
	scheduleRepo := sqlite.NewScheduleRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	return services{
		tasks:     NewTaskService(taskRepo, auditRepo),
		deps:      NewDependencyService(depRepo, taskRepo, auditRepo),
		schedules: NewScheduleService(taskRepo, depRepo, scheduleRepo, auditRepo, nil),
		audit:     NewAuditService(auditRepo, taskRepo, scheduleRepo),
	}
}

// seedExample creates the five-task sample project and returns name -> ID.
func seedExample(t *testing.T, s services) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for _, tc := range []struct {
		name     string
		duration int
	}{
		{"Design", 3}, {"Frontend", 4}, {"Backend", 5}, {"Database", 3}, {"Testing", 2},
	} {
		task, err := s.tasks.Create(CreateTaskInput{Name: tc.name, Duration: tc.duration}, "tester")
		if err != nil {
			t.Fatalf("Create(%s) error = %v", tc.name, err)
		}
		ids[tc.name] = task.ID
	}
	for _, edge := range [][2]string{
		{"Frontend", "Design"}, {"Backend", "Design"}, {"Database", "Backend"},
		{"Testing", "Frontend"}, {"Testing", "Backend"}, {"Testing", "Database"},
	} {
		if _, err := s.deps.Add(edge[0], edge[1], "tester"); err != nil {
			t.Fatalf("Add(%s -> %s) error = %v", edge[0], edge[1], err)
		}
	}
	return ids
}

func errCode(err error) domain.ErrorCode {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestTaskService_Create(t *testing.T) {
	s := newServices(t)

	tests := []struct {
		name     string
		input    CreateTaskInput
		wantCode domain.ErrorCode
	}{
		{"valid", CreateTaskInput{Name: "Design", Duration: 3}, ""},
		{"duplicate name", CreateTaskInput{Name: "Design", Duration: 1}, domain.ErrCodeDuplicateName},
		{"empty name", CreateTaskInput{Name: "", Duration: 1}, domain.ErrCodeValidationFailed},
		{"zero duration", CreateTaskInput{Name: "Zero", Duration: 0}, domain.ErrCodeValidationFailed},
		{"cjk name at limit", CreateTaskInput{Name: strings.Repeat("設", domain.MaxNameLength), Duration: 1}, ""},
		{"cjk name over limit", CreateTaskInput{Name: strings.Repeat("計", domain.MaxNameLength+1), Duration: 1}, domain.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := s.tasks.Create(tt.input, "tester")
			if got := errCode(err); got != tt.wantCode {
				t.Fatalf("Create() code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if tt.wantCode == "" && task.ID == "" {
				t.Error("Create() returned task without ID")
			}
		})
	}
}

func TestTaskService_CreateBuildsTask(t *testing.T) {
	s := newServices(t)
	desc := "wireframes"

	task, err := s.tasks.Create(CreateTaskInput{Name: "Design", Duration: 3, Description: &desc}, "tester")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(task.ID, "tk-") {
		t.Errorf("ID = %v, want tk- prefix", task.ID)
	}
	if task.Description == nil || *task.Description != desc {
		t.Errorf("Description = %v, want %q", task.Description, desc)
	}
	if task.CreatedAt.Location() != time.UTC || !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("timestamps = %v / %v, want equal UTC instants", task.CreatedAt, task.UpdatedAt)
	}

	got, err := s.tasks.Get(task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Design" || got.Duration != 3 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestTaskService_GetByIDOrName(t *testing.T) {
	s := newServices(t)
	created, _ := s.tasks.Create(CreateTaskInput{Name: "Design", Duration: 3}, "tester")

	for _, ref := range []string{created.ID, "Design"} {
		got, err := s.tasks.Get(ref)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", ref, err)
		}
		if got.ID != created.ID {
			t.Errorf("Get(%s).ID = %s, want %s", ref, got.ID, created.ID)
		}
	}

	if _, err := s.tasks.Get("nope"); errCode(err) != domain.ErrCodeTaskNotFound {
		t.Errorf("Get(nope) error = %v, want TASK_NOT_FOUND", err)
	}
}

func TestTaskService_UpdateAudits(t *testing.T) {
	s := newServices(t)
	task, _ := s.tasks.Create(CreateTaskInput{Name: "Design", Duration: 3}, "tester")
	s.tasks.Create(CreateTaskInput{Name: "Backend", Duration: 5}, "tester")

	duration := 4
	desc := "wireframes"
	updated, err := s.tasks.Update(task.ID, UpdateTaskInput{Duration: &duration, Description: &desc}, "editor")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Duration != 4 || updated.Description == nil || *updated.Description != desc {
		t.Errorf("Update() = %+v", updated)
	}

	history, err := s.audit.GetTaskHistory(task.ID)
	if err != nil {
		t.Fatalf("GetTaskHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d entries, want 3 (create + 2 updates)", len(history))
	}

	taken := "Backend"
	if _, err := s.tasks.Update(task.ID, UpdateTaskInput{Name: &taken}, "editor"); errCode(err) != domain.ErrCodeDuplicateName {
		t.Errorf("Update() to taken name error = %v, want DUPLICATE_NAME", err)
	}

	bad := 0
	if _, err := s.tasks.Update(task.ID, UpdateTaskInput{Duration: &bad}, "editor"); errCode(err) != domain.ErrCodeValidationFailed {
		t.Errorf("Update() zero duration error = %v, want VALIDATION_FAILED", err)
	}
}

func TestTaskService_DeleteKeepsHistory(t *testing.T) {
	s := newServices(t)
	task, _ := s.tasks.Create(CreateTaskInput{Name: "Design", Duration: 3}, "tester")

	if err := s.tasks.Delete("Design", "tester"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.tasks.Get(task.ID); errCode(err) != domain.ErrCodeTaskNotFound {
		t.Errorf("Get() after delete error = %v", err)
	}

	history, err := s.audit.GetTaskHistory(task.ID)
	if err != nil {
		t.Fatalf("GetTaskHistory() error = %v", err)
	}
	if len(history) != 2 || history[0].Action != domain.ActionDelete {
		t.Errorf("history = %v, want delete then create", history)
	}

	if _, err := s.audit.GetTaskHistory("tk-ffffff"); errCode(err) != domain.ErrCodeTaskNotFound {
		t.Errorf("GetTaskHistory(unknown) error = %v", err)
	}
}

func TestDependencyService(t *testing.T) {
	s := newServices(t)
	ids := seedExample(t, s)

	// Idempotent.
	if _, err := s.deps.Add("Testing", "Design", "tester"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := s.deps.Add("Testing", "Design", "tester"); err != nil {
		t.Fatalf("Add() again error = %v", err)
	}

	if _, err := s.deps.Add("Design", "Design", "tester"); errCode(err) != domain.ErrCodeValidationFailed {
		t.Errorf("self-dependency error = %v, want VALIDATION_FAILED", err)
	}

	_, err := s.deps.Add("Design", "Testing", "tester")
	if errCode(err) != domain.ErrCodeCycleDetected {
		t.Fatalf("cycle error = %v, want CYCLE_DETECTED", err)
	}
	var de *domain.DomainError
	errors.As(err, &de)
	path, _ := de.Context["path"].([]string)
	if len(path) < 3 || path[0] != ids["Design"] || path[len(path)-1] != ids["Design"] {
		t.Errorf("cycle path = %v, want to start and end at Design", path)
	}

	deps, err := s.deps.List("Testing")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(deps) != 4 {
		t.Errorf("Testing has %d dependencies, want 4", len(deps))
	}

	if err := s.deps.Remove("Testing", "Design", "tester"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.deps.Remove("Testing", "Design", "tester"); errCode(err) != domain.ErrCodeDependencyNotFound {
		t.Errorf("Remove() again error = %v, want DEPENDENCY_NOT_FOUND", err)
	}
	if _, err := s.deps.Add("Testing", "QA", "tester"); errCode(err) != domain.ErrCodeTaskNotFound {
		t.Errorf("Add() unknown parent error = %v, want TASK_NOT_FOUND", err)
	}
}

func TestScheduleService_Run(t *testing.T) {
	s := newServices(t)
	seedExample(t, s)

	run, err := s.schedules.Run(context.Background(), RunInput{}, "planner")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Algorithm != domain.AlgorithmAStar || run.Workers != 1 {
		t.Errorf("Run() defaults = %s/%d, want astar/1", run.Algorithm, run.Workers)
	}

	wantOrder := []string{"Design", "Backend", "Database", "Frontend", "Testing"}
	for i, name := range wantOrder {
		if run.Entries[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, run.Entries[i].Name, name)
		}
	}
	if run.Metrics.Makespan != 17 {
		t.Errorf("Makespan = %d, want 17", run.Metrics.Makespan)
	}

	stored, err := s.schedules.Get(run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Entries) != 5 || stored.CreatedBy != "planner" {
		t.Errorf("stored run = %+v", stored)
	}

	two, err := s.schedules.Run(context.Background(), RunInput{Algorithm: domain.AlgorithmSearch, Workers: 2}, "planner")
	if err != nil {
		t.Fatalf("Run(search) error = %v", err)
	}
	if !two.Optimal || two.Workers != 2 {
		t.Errorf("Run(search) = optimal %v workers %d", two.Optimal, two.Workers)
	}

	runs, total, err := s.schedules.List(1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || runs[0].ID != two.ID {
		t.Errorf("List() = %d runs, first %s, want newest first", total, runs[0].ID)
	}

	action := string(domain.ActionSchedule)
	entries, _, err := s.audit.Query(QueryInput{Action: &action, Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("schedule audit entries = %d, want 2", len(entries))
	}
}

func TestScheduleService_RunErrors(t *testing.T) {
	s := newServices(t)

	if _, err := s.schedules.Run(context.Background(), RunInput{}, "planner"); errCode(err) != domain.ErrCodeValidationFailed {
		t.Errorf("Run() on empty project error = %v, want VALIDATION_FAILED", err)
	}

	seedExample(t, s)

	tests := []struct {
		name  string
		input RunInput
	}{
		{"unknown algorithm", RunInput{Algorithm: "dijkstra"}},
		{"too many workers", RunInput{Workers: domain.MaxWorkers + 1}},
		{"negative workers", RunInput{Workers: -1}},
		{"negative budget", RunInput{MaxExpansions: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.schedules.Run(context.Background(), tt.input, "planner")
			if errCode(err) != domain.ErrCodeValidationFailed {
				t.Errorf("Run() error = %v, want VALIDATION_FAILED", err)
			}
		})
	}

	if _, err := s.schedules.Get("sc-missing"); errCode(err) != domain.ErrCodeScheduleNotFound {
		t.Errorf("Get(missing) error = %v, want SCHEDULE_NOT_FOUND", err)
	}
}

func TestScheduleService_Compare(t *testing.T) {
	s := newServices(t)
	seedExample(t, s)

	cmp, err := s.schedules.Compare(context.Background(), CompareInput{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(cmp.Runs) != 2 || cmp.Runs[0].Algorithm != domain.AlgorithmAStar || cmp.Runs[1].Algorithm != domain.AlgorithmGreedy {
		t.Errorf("Compare() runs = %v", cmp.Runs)
	}
	if cmp.Best != domain.AlgorithmAStar {
		t.Errorf("Best = %s, want astar on a tie", cmp.Best)
	}

	runs, total, _ := s.schedules.List(1, 10)
	if total != 0 || len(runs) != 0 {
		t.Error("Compare() should not store runs")
	}

	if _, err := s.schedules.Compare(context.Background(), CompareInput{Algorithms: []domain.Algorithm{"random"}}); errCode(err) != domain.ErrCodeValidationFailed {
		t.Errorf("Compare(random) error = %v, want VALIDATION_FAILED", err)
	}
}

func TestAuditService_ScheduleHistory(t *testing.T) {
	s := newServices(t)
	seedExample(t, s)

	run, err := s.schedules.Run(context.Background(), RunInput{}, "planner")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	history, err := s.audit.GetScheduleHistory(run.ID)
	if err != nil {
		t.Fatalf("GetScheduleHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].Action != domain.ActionSchedule || history[0].ChangedBy != "planner" {
		t.Errorf("history = %v, want one schedule entry by planner", history)
	}

	if _, err := s.audit.GetScheduleHistory("sc-missing"); errCode(err) != domain.ErrCodeScheduleNotFound {
		t.Errorf("GetScheduleHistory(unknown) error = %v", err)
	}
}
