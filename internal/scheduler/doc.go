// Package scheduler places dependency-constrained tasks on a timeline of one
// or more workers.
//
// A Plan is built from tasks with NewPlan, which validates durations, unknown
// dependencies and cycles up front. Schedulers then dispatch tasks one at a
// time: a task is ready once all of its dependencies are dispatched, and it is
// placed on the earliest-free worker at the first instant its dependencies
// have finished.
//
// Three strategies are available:
//
//   - astar: score each ready task with f = g + h + duration, where g is the
//     task's earliest start and h is the remaining work plus the longest chain
//     of undispatched dependencies; dispatch the lowest score.
//   - greedy: dispatch the ready task that can start earliest, shortest first.
//   - search: A* over dispatch orders, minimizing total completion time, with
//     an expansion budget that falls back to astar when exhausted.
package scheduler
