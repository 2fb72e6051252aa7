package scheduler

import (
	"context"

	"github.com/taskstar/taskstar/internal/domain"
)

// AStar dispatches, at every step, the ready task with the lowest score
//
//	f = g + h + duration
//
// where g is the task's earliest start and h is the duration of all other
// undispatched tasks plus the longest chain of undispatched dependencies left
// once the task is dispatched. Ties go to the smallest name.
type AStar struct{}

// Name implements Scheduler.
func (AStar) Name() domain.Algorithm {
	return domain.AlgorithmAStar
}

// Schedule implements Scheduler.
func (a AStar) Schedule(ctx context.Context, p *Plan) (*Result, error) {
	tl := newTimeline(p)
	entries := make([]domain.ScheduleEntry, 0, p.Len())
	steps := 0

	for !tl.finished(p) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		i, ok := a.pick(p, tl)
		if !ok {
			return nil, ErrScheduleImpossible
		}
		entries = append(entries, tl.place(p, i))
		steps++
	}

	res := newResult(a.Name(), p, entries)
	res.Expansions = steps
	return res, nil
}

func (AStar) pick(p *Plan, tl *timeline) (int, bool) {
	best, bestF := -1, 0
	for _, i := range tl.ready(p) {
		f := score(p, tl, i)
		if best == -1 || f < bestF || (f == bestF && p.less(i, best)) {
			best, bestF = i, f
		}
	}
	return best, best != -1
}

// score computes f for dispatching ready task i next.
func score(p *Plan, tl *timeline, i int) int {
	d := p.tasks[i].Duration
	g := tl.earliestStart(p, i)
	h := (tl.remaining - d) + maxDepth(p, tl, i)
	return g + h + d
}

// maxDepth returns the longest chain of undispatched dependencies from any
// undispatched task, treating task picked as already dispatched. A task whose
// dependencies are all dispatched has depth 0.
func maxDepth(p *Plan, tl *timeline, picked int) int {
	scheduled := func(j int) bool { return tl.done[j] || j == picked }

	memo := make([]int, len(p.tasks))
	for j := range memo {
		memo[j] = -1
	}

	var depth func(j int) int
	depth = func(j int) int {
		if memo[j] >= 0 {
			return memo[j]
		}
		d := 0
		for _, k := range p.deps[j] {
			if scheduled(k) {
				continue
			}
			if c := 1 + depth(k); c > d {
				d = c
			}
		}
		memo[j] = d
		return d
	}

	best := 0
	for j := range p.tasks {
		if scheduled(j) {
			continue
		}
		if d := depth(j); d > best {
			best = d
		}
	}
	return best
}
