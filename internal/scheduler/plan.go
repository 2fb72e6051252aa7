package scheduler

import "github.com/taskstar/taskstar/internal/domain"

// DefaultMaxExpansions bounds the search algorithm when Options leaves it unset.
const DefaultMaxExpansions = 100_000

// Task is a unit of work to be placed on the timeline.
type Task struct {
	ID           string
	Name         string
	Duration     int
	Dependencies []string
}

// Options controls how a plan is scheduled. Zero values select defaults.
type Options struct {
	Workers       int
	MaxExpansions int
}

// Plan is a validated, acyclic set of tasks ready to be scheduled.
type Plan struct {
	tasks         []Task
	index         map[string]int
	deps          [][]int
	dependents    [][]int
	workers       int
	maxExpansions int
}

// NewPlan validates tasks and options and builds the dependency graph.
// Task errors are reported before option errors, and both before any
// dependency error. Tasks keep their input order, which breaks the final
// ties in every algorithm.
func NewPlan(tasks []Task, opts Options) (*Plan, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	p := &Plan{
		tasks:      make([]Task, len(tasks)),
		index:      make(map[string]int, len(tasks)),
		deps:       make([][]int, len(tasks)),
		dependents: make([][]int, len(tasks)),
	}

	for i, t := range tasks {
		if t.ID == "" {
			return nil, &TaskError{TaskID: t.Name, Reason: "missing ID"}
		}
		if _, dup := p.index[t.ID]; dup {
			return nil, &TaskError{TaskID: t.ID, Reason: "duplicate task ID"}
		}
		if t.Duration < 1 {
			return nil, &TaskError{TaskID: t.ID, Reason: "duration must be at least 1"}
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		t.Dependencies = append([]string(nil), t.Dependencies...)
		p.tasks[i] = t
		p.index[t.ID] = i
	}

	p.workers = opts.Workers
	if p.workers == 0 {
		p.workers = domain.DefaultWorkers
	}
	if p.workers < 1 {
		return nil, ErrInvalidWorkers
	}

	p.maxExpansions = opts.MaxExpansions
	if p.maxExpansions == 0 {
		p.maxExpansions = DefaultMaxExpansions
	}
	if p.maxExpansions < 0 {
		return nil, ErrInvalidBudget
	}

	for i, t := range p.tasks {
		seen := make(map[int]bool, len(t.Dependencies))
		for _, depID := range t.Dependencies {
			j, ok := p.index[depID]
			if !ok {
				return nil, &UnknownDependencyError{TaskID: t.ID, DependencyID: depID}
			}
			if seen[j] {
				continue
			}
			seen[j] = true
			p.deps[i] = append(p.deps[i], j)
			p.dependents[j] = append(p.dependents[j], i)
		}
	}

	if path := p.findCycle(); path != nil {
		return nil, &CycleError{Path: path}
	}

	return p, nil
}

// Len returns the number of tasks in the plan.
func (p *Plan) Len() int {
	return len(p.tasks)
}

// Workers returns the number of workers tasks are spread across.
func (p *Plan) Workers() int {
	return p.workers
}

// MaxExpansions returns the search budget.
func (p *Plan) MaxExpansions() int {
	return p.maxExpansions
}

// Tasks returns a copy of the plan's tasks in input order.
func (p *Plan) Tasks() []Task {
	out := make([]Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// Task looks up a task by ID.
func (p *Plan) Task(id string) (Task, bool) {
	i, ok := p.index[id]
	if !ok {
		return Task{}, false
	}
	return p.tasks[i], true
}

// TotalDuration returns the sum of all task durations.
func (p *Plan) TotalDuration() int {
	total := 0
	for _, t := range p.tasks {
		total += t.Duration
	}
	return total
}

// less orders tasks by name, then ID.
func (p *Plan) less(i, j int) bool {
	a, b := p.tasks[i], p.tasks[j]
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// findCycle walks the graph depth-first in input order and returns the first
// cycle it meets as a list of IDs, or nil.
func (p *Plan) findCycle() []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(p.tasks))
	var stack []int
	var cycle []string

	var visit func(i int) bool
	visit = func(i int) bool {
		color[i] = gray
		stack = append(stack, i)
		for _, j := range p.deps[i] {
			switch color[j] {
			case gray:
				start := 0
				for k, v := range stack {
					if v == j {
						start = k
						break
					}
				}
				for _, v := range stack[start:] {
					cycle = append(cycle, p.tasks[v].ID)
				}
				cycle = append(cycle, p.tasks[j].ID)
				return true
			case white:
				if visit(j) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
		return false
	}

	for i := range p.tasks {
		if color[i] == white && visit(i) {
			return cycle
		}
	}
	return nil
}
