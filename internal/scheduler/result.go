package scheduler

import (
	"fmt"

	"github.com/taskstar/taskstar/internal/domain"
)

// Result is a complete schedule produced by one algorithm.
type Result struct {
	Algorithm domain.Algorithm
	Workers   int
	// Entries are in dispatch order.
	Entries    []domain.ScheduleEntry
	Metrics    domain.Metrics
	Optimal    bool
	Expansions int

	// generated counts the states search pushed onto its frontier.
	generated int
}

func newResult(algo domain.Algorithm, p *Plan, entries []domain.ScheduleEntry) *Result {
	return &Result{
		Algorithm: algo,
		Workers:   p.workers,
		Entries:   entries,
		Metrics:   domain.ComputeMetrics(entries, p.workers),
	}
}

// Lookup returns the entry for a task ID.
func (r *Result) Lookup(id string) (domain.ScheduleEntry, bool) {
	for _, e := range r.Entries {
		if e.TaskID == id {
			return e, true
		}
	}
	return domain.ScheduleEntry{}, false
}

// Run converts the result into an unsaved schedule run.
func (r *Result) Run() domain.ScheduleRun {
	entries := make([]domain.ScheduleEntry, len(r.Entries))
	copy(entries, r.Entries)
	return domain.ScheduleRun{
		Algorithm:  r.Algorithm,
		Workers:    r.Workers,
		Optimal:    r.Optimal,
		Expansions: r.Expansions,
		Metrics:    r.Metrics,
		Entries:    entries,
	}
}

// Validate checks that the result is a feasible schedule for p: every task
// appears once with its full duration, no task starts before its
// dependencies end, and no worker runs two tasks at once.
func (r *Result) Validate(p *Plan) error {
	if len(r.Entries) != len(p.tasks) {
		return fmt.Errorf("schedule has %d entries, plan has %d tasks", len(r.Entries), len(p.tasks))
	}

	byTask := make(map[string]domain.ScheduleEntry, len(r.Entries))
	for _, e := range r.Entries {
		if _, dup := byTask[e.TaskID]; dup {
			return fmt.Errorf("task %q scheduled twice", e.TaskID)
		}
		t, ok := p.Task(e.TaskID)
		if !ok {
			return fmt.Errorf("task %q is not part of the plan", e.TaskID)
		}
		if e.End-e.Start != t.Duration {
			return fmt.Errorf("task %q runs %d units, want %d", e.TaskID, e.End-e.Start, t.Duration)
		}
		if e.Start < 0 {
			return fmt.Errorf("task %q starts before time 0", e.TaskID)
		}
		if e.Worker < 0 || e.Worker >= r.Workers {
			return fmt.Errorf("task %q assigned to unknown worker %d", e.TaskID, e.Worker)
		}
		byTask[e.TaskID] = e
	}

	for i, t := range p.tasks {
		e := byTask[t.ID]
		for _, d := range p.deps[i] {
			dep := byTask[p.tasks[d].ID]
			if dep.End > e.Start {
				return fmt.Errorf("task %q starts at %d before dependency %q ends at %d",
					t.ID, e.Start, dep.TaskID, dep.End)
			}
		}
	}

	for i, a := range r.Entries {
		for _, b := range r.Entries[i+1:] {
			if a.Worker == b.Worker && a.Start < b.End && b.Start < a.End {
				return fmt.Errorf("tasks %q and %q overlap on worker %d", a.TaskID, b.TaskID, a.Worker)
			}
		}
	}

	return nil
}
