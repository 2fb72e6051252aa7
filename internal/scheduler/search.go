package scheduler

import (
	"container/heap"
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/domain"
)

// ctxCheckInterval is how many expansions pass between context checks.
const ctxCheckInterval = 256

// Search runs A* over dispatch orders. A state is a dispatched prefix, its
// cost g is the sum of end times so far, and its heuristic is the total
// completion time of the remaining tasks under shortest-processing-time list
// scheduling with every worker free at the current earliest free time. That
// relaxation ignores dependencies, so it never overestimates and the first
// goal popped minimizes total completion time.
//
// Search gives up once it has expanded or generated more than the plan's
// MaxExpansions states and returns the AStar schedule with Optimal unset.
// Both the frontier and the table of best costs hold only generated states,
// so memory stays proportional to the budget.
type Search struct {
	logger *zap.Logger
}

// NewSearch creates a Search scheduler. A nil logger discards output.
func NewSearch(logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{logger: logger}
}

// Name implements Scheduler.
func (s *Search) Name() domain.Algorithm {
	return domain.AlgorithmSearch
}

// searchNode is one dispatched prefix. It stores only the last task placed;
// the timeline is replayed from the root when the node is expanded.
type searchNode struct {
	parent *searchNode
	task   int32
	depth  int32
	key    string
	g      int
	f      int
	seq    int
}

// order returns the dispatched task indices from the root.
func (n *searchNode) order() []int {
	out := make([]int, n.depth)
	for c := n; c.parent != nil; c = c.parent {
		out[c.depth-1] = int(c.task)
	}
	return out
}

// replay rebuilds the node's timeline.
func (n *searchNode) replay(p *Plan) *timeline {
	tl := newTimeline(p)
	for _, i := range n.order() {
		tl.place(p, i)
	}
	return tl
}

// entries rebuilds the placements along the node's path.
func (n *searchNode) entries(p *Plan) []domain.ScheduleEntry {
	tl := newTimeline(p)
	out := make([]domain.ScheduleEntry, 0, n.depth)
	for _, i := range n.order() {
		out = append(out, tl.place(p, i))
	}
	return out
}

// frontier is a min-heap on f, preferring deeper states and then older ones.
type frontier []*searchNode

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.seq < b.seq
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) { *q = append(*q, x.(*searchNode)) }

func (q *frontier) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// Schedule implements Scheduler.
func (s *Search) Schedule(ctx context.Context, p *Plan) (*Result, error) {
	rootTL := newTimeline(p)
	root := &searchNode{task: -1, key: rootTL.key(p), f: lowerBound(p, rootTL)}

	bestG := map[string]int{root.key: 0}
	q := &frontier{root}
	expansions := 0
	generated := 0

	for q.Len() > 0 {
		n := heap.Pop(q).(*searchNode)
		if n.g > bestG[n.key] {
			continue
		}

		tl := n.replay(p)
		if tl.finished(p) {
			res := newResult(s.Name(), p, n.entries(p))
			res.Optimal = true
			res.Expansions = expansions
			res.generated = generated
			return res, nil
		}

		expansions++
		if expansions > p.maxExpansions {
			return s.fallback(ctx, p, expansions, generated)
		}
		if expansions%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		for _, i := range tl.ready(p) {
			next := tl.clone()
			e := next.place(p, i)

			child := &searchNode{
				parent: n,
				task:   int32(i),
				depth:  n.depth + 1,
				key:    next.key(p),
				g:      n.g + e.End,
			}
			if g, seen := bestG[child.key]; seen && g <= child.g {
				continue
			}
			if generated >= p.maxExpansions {
				return s.fallback(ctx, p, expansions, generated)
			}
			generated++
			bestG[child.key] = child.g

			child.seq = generated
			child.f = child.g + lowerBound(p, next)
			heap.Push(q, child)
		}
	}

	return nil, ErrScheduleImpossible
}

func (s *Search) fallback(ctx context.Context, p *Plan, expansions, generated int) (*Result, error) {
	s.logger.Warn("search budget exhausted, falling back to astar",
		zap.Int("tasks", p.Len()),
		zap.Int("workers", p.workers),
		zap.Int("max_expansions", p.maxExpansions),
		zap.Int("expansions", expansions),
		zap.Int("generated", generated),
	)

	res, err := AStar{}.Schedule(ctx, p)
	if err != nil {
		return nil, err
	}
	res.Algorithm = s.Name()
	res.Optimal = false
	res.Expansions = expansions
	res.generated = generated
	return res, nil
}

// lowerBound returns the total completion time of the undispatched tasks
// under SPT list scheduling on identical workers all free at the timeline's
// earliest free time.
func lowerBound(p *Plan, tl *timeline) int {
	durations := make([]int, 0, len(p.tasks)-tl.count)
	for i, t := range p.tasks {
		if !tl.done[i] {
			durations = append(durations, t.Duration)
		}
	}
	sort.Ints(durations)

	t0 := tl.free[tl.earliestWorker()]
	loads := make([]int, len(tl.free))
	for w := range loads {
		loads[w] = t0
	}

	sum := 0
	for k, d := range durations {
		w := k % len(loads)
		loads[w] += d
		sum += loads[w]
	}
	return sum
}
