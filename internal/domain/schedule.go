package domain

import "time"

// Algorithm names a scheduling strategy.
type Algorithm string

const (
	// AlgorithmAStar scores each ready task with f = g + h + duration and
	// dispatches the lowest score.
	AlgorithmAStar Algorithm = "astar"
	// AlgorithmGreedy dispatches the ready task that can start earliest,
	// preferring shorter tasks.
	AlgorithmGreedy Algorithm = "greedy"
	// AlgorithmSearch runs a full A* search over dispatch orders to minimize
	// total completion time.
	AlgorithmSearch Algorithm = "search"
)

// DefaultAlgorithm is used when no algorithm is requested.
const DefaultAlgorithm = AlgorithmAStar

// ValidAlgorithms contains all valid algorithms in display order.
var ValidAlgorithms = []Algorithm{AlgorithmAStar, AlgorithmGreedy, AlgorithmSearch}

// IsValid checks if the algorithm is a known algorithm.
func (a Algorithm) IsValid() bool {
	for _, v := range ValidAlgorithms {
		if a == v {
			return true
		}
	}
	return false
}

// Worker limits.
const (
	DefaultWorkers = 1
	MaxWorkers     = 64
)

// ValidWorkers checks if the worker count is within range (1-MaxWorkers).
func ValidWorkers(w int) bool {
	return w >= 1 && w <= MaxWorkers
}

// ScheduleEntry is one task placed on the timeline.
type ScheduleEntry struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Worker int    `json:"worker"`
}

// Duration returns the length of the entry.
func (e ScheduleEntry) Duration() int {
	return e.End - e.Start
}

// Metrics summarizes a schedule.
type Metrics struct {
	TotalTasks        int     `json:"total_tasks"`
	Makespan          int     `json:"makespan"`
	EarliestFinish    int     `json:"earliest_finish"`
	TotalCompletion   int     `json:"total_completion"`
	AverageCompletion float64 `json:"average_completion"`
	BusyTime          int     `json:"busy_time"`
	IdleTime          int     `json:"idle_time"`
	Utilization       float64 `json:"utilization"`
}

// ComputeMetrics derives schedule metrics from its entries.
func ComputeMetrics(entries []ScheduleEntry, workers int) Metrics {
	m := Metrics{TotalTasks: len(entries)}
	if len(entries) == 0 {
		return m
	}

	m.EarliestFinish = entries[0].End
	for _, e := range entries {
		if e.End > m.Makespan {
			m.Makespan = e.End
		}
		if e.End < m.EarliestFinish {
			m.EarliestFinish = e.End
		}
		m.TotalCompletion += e.End
		m.BusyTime += e.Duration()
	}

	m.AverageCompletion = float64(m.TotalCompletion) / float64(len(entries))
	capacity := workers * m.Makespan
	m.IdleTime = capacity - m.BusyTime
	if capacity > 0 {
		m.Utilization = float64(m.BusyTime) / float64(capacity)
	}
	return m
}

// ScheduleRun is a persisted scheduling result.
type ScheduleRun struct {
	ID         string          `json:"id"`
	Algorithm  Algorithm       `json:"algorithm"`
	Workers    int             `json:"workers"`
	Optimal    bool            `json:"optimal"`
	Expansions int             `json:"expansions"`
	Metrics    Metrics         `json:"metrics"`
	Entries    []ScheduleEntry `json:"entries"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by"`
}

// Comparison holds the runs of several algorithms over the same tasks.
type Comparison struct {
	Workers int           `json:"workers"`
	Best    Algorithm     `json:"best"`
	Runs    []ScheduleRun `json:"runs"`
}
