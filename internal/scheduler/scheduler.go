package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taskstar/taskstar/internal/domain"
)

// Scheduler produces a schedule for a plan.
type Scheduler interface {
	Name() domain.Algorithm
	Schedule(ctx context.Context, p *Plan) (*Result, error)
}

// New returns the scheduler for an algorithm.
func New(algo domain.Algorithm, logger *zap.Logger) (Scheduler, error) {
	switch algo {
	case domain.AlgorithmAStar:
		return AStar{}, nil
	case domain.AlgorithmGreedy:
		return Greedy{}, nil
	case domain.AlgorithmSearch:
		return NewSearch(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}

// Run schedules p with the named algorithm.
func Run(ctx context.Context, p *Plan, algo domain.Algorithm, logger *zap.Logger) (*Result, error) {
	s, err := New(algo, logger)
	if err != nil {
		return nil, err
	}
	return s.Schedule(ctx, p)
}

// DefaultComparison is what Compare runs when no algorithms are given.
var DefaultComparison = []domain.Algorithm{domain.AlgorithmAStar, domain.AlgorithmGreedy}

// Comparison holds one result per requested algorithm.
type Comparison struct {
	// Results are in request order.
	Results []*Result
	// Best has the lowest total completion time, then the lowest makespan,
	// then comes first in request order.
	Best *Result
}

// Compare schedules p with every algorithm concurrently. Duplicate
// algorithms are run once.
func Compare(ctx context.Context, p *Plan, logger *zap.Logger, algos ...domain.Algorithm) (*Comparison, error) {
	if len(algos) == 0 {
		algos = DefaultComparison
	}

	var unique []domain.Algorithm
	seen := make(map[domain.Algorithm]bool, len(algos))
	for _, a := range algos {
		if seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
	}

	schedulers := make([]Scheduler, len(unique))
	for i, a := range unique {
		s, err := New(a, logger)
		if err != nil {
			return nil, err
		}
		schedulers[i] = s
	}

	results := make([]*Result, len(schedulers))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range schedulers {
		g.Go(func() error {
			res, err := s.Schedule(gctx, p)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if better(r, best) {
			best = r
		}
	}

	return &Comparison{Results: results, Best: best}, nil
}

func better(a, b *Result) bool {
	if a.Metrics.TotalCompletion != b.Metrics.TotalCompletion {
		return a.Metrics.TotalCompletion < b.Metrics.TotalCompletion
	}
	return a.Metrics.Makespan < b.Metrics.Makespan
}
