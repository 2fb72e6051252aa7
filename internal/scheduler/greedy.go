package scheduler

import (
	"context"

	"github.com/taskstar/taskstar/internal/domain"
)

// Greedy dispatches the ready task that can start earliest, breaking ties by
// shortest duration and then input order. It never looks past the current
// step.
type Greedy struct{}

// Name implements Scheduler.
func (Greedy) Name() domain.Algorithm {
	return domain.AlgorithmGreedy
}

// Schedule implements Scheduler.
func (g Greedy) Schedule(ctx context.Context, p *Plan) (*Result, error) {
	tl := newTimeline(p)
	entries := make([]domain.ScheduleEntry, 0, p.Len())

	for !tl.finished(p) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best, bestStart := -1, 0
		for _, i := range tl.ready(p) {
			start := tl.earliestStart(p, i)
			if best == -1 || start < bestStart ||
				(start == bestStart && p.tasks[i].Duration < p.tasks[best].Duration) {
				best, bestStart = i, start
			}
		}
		if best == -1 {
			return nil, ErrScheduleImpossible
		}
		entries = append(entries, tl.place(p, best))
	}

	res := newResult(g.Name(), p, entries)
	res.Expansions = len(entries)
	return res, nil
}
