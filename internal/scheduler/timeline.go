package scheduler

import (
	"encoding/binary"
	"sort"

	"github.com/taskstar/taskstar/internal/domain"
)

// timeline tracks dispatch progress: when each worker becomes free and when
// each dispatched task ends.
type timeline struct {
	free      []int
	end       []int
	done      []bool
	count     int
	remaining int
}

func newTimeline(p *Plan) *timeline {
	return &timeline{
		free:      make([]int, p.workers),
		end:       make([]int, len(p.tasks)),
		done:      make([]bool, len(p.tasks)),
		remaining: p.TotalDuration(),
	}
}

func (tl *timeline) clone() *timeline {
	return &timeline{
		free:      append([]int(nil), tl.free...),
		end:       append([]int(nil), tl.end...),
		done:      append([]bool(nil), tl.done...),
		count:     tl.count,
		remaining: tl.remaining,
	}
}

func (tl *timeline) finished(p *Plan) bool {
	return tl.count == len(p.tasks)
}

// earliestWorker returns the worker that frees up first, lowest index on ties.
func (tl *timeline) earliestWorker() int {
	w := 0
	for i, f := range tl.free {
		if f < tl.free[w] {
			w = i
		}
	}
	return w
}

// earliestStart returns the first instant task i could begin on the
// earliest-free worker.
func (tl *timeline) earliestStart(p *Plan, i int) int {
	start := tl.free[tl.earliestWorker()]
	for _, d := range p.deps[i] {
		if tl.end[d] > start {
			start = tl.end[d]
		}
	}
	return start
}

// ready returns undispatched tasks whose dependencies are all dispatched, in
// input order.
func (tl *timeline) ready(p *Plan) []int {
	var out []int
	for i := range p.tasks {
		if tl.done[i] {
			continue
		}
		ok := true
		for _, d := range p.deps[i] {
			if !tl.done[d] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// place dispatches task i onto the earliest-free worker.
func (tl *timeline) place(p *Plan, i int) domain.ScheduleEntry {
	w := tl.earliestWorker()
	start := tl.earliestStart(p, i)
	t := p.tasks[i]
	end := start + t.Duration

	tl.free[w] = end
	tl.end[i] = end
	tl.done[i] = true
	tl.count++
	tl.remaining -= t.Duration

	return domain.ScheduleEntry{
		TaskID: t.ID,
		Name:   t.Name,
		Start:  start,
		End:    end,
		Worker: w,
	}
}

// key identifies a search state exactly: two timelines with equal keys have
// identical futures. It packs the done set as a bitset, then the sorted free
// times, then index and end of every done task with an undone dependent, all
// as uvarints.
func (tl *timeline) key(p *Plan) string {
	bits := (len(tl.done) + 7) / 8
	buf := make([]byte, bits, bits+2*len(tl.free)+8)
	for i, d := range tl.done {
		if d {
			buf[i/8] |= 1 << (i % 8)
		}
	}

	free := append([]int(nil), tl.free...)
	sort.Ints(free)
	for _, f := range free {
		buf = binary.AppendUvarint(buf, uint64(f))
	}

	for i, d := range tl.done {
		if !d {
			continue
		}
		for _, c := range p.dependents[i] {
			if !tl.done[c] {
				buf = binary.AppendUvarint(buf, uint64(i))
				buf = binary.AppendUvarint(buf, uint64(tl.end[i]))
				break
			}
		}
	}
	return string(buf)
}
