package gantt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/taskstar/taskstar/internal/domain"
)

// DefaultTextWidth is the bar area width in columns.
const DefaultTextWidth = 60

// TextOptions configures Text.
type TextOptions struct {
	Width int
}

// Text draws run as an ASCII chart, one row per entry in dispatch order:
//
//	Design   |#########                        |  0-3   w0
//	         0                                17
func Text(w io.Writer, run domain.ScheduleRun, opts TextOptions) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultTextWidth
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s (%s, %s)\n", DefaultTitle, run.Algorithm, workerLabel(run.Workers))

	if len(run.Entries) == 0 {
		fmt.Fprintln(bw, "no tasks scheduled")
		return bw.Flush()
	}

	makespan := run.Metrics.Makespan
	if makespan <= 0 {
		makespan = 1
	}

	nameWidth := 0
	for _, e := range run.Entries {
		if n := utf8.RuneCountInString(e.Name); n > nameWidth {
			nameWidth = n
		}
	}

	col := func(t int) int { return t * width / makespan }

	for _, e := range run.Entries {
		from, to := col(e.Start), col(e.End)
		if to <= from {
			to = from + 1
		}
		if to > width {
			from, to = width-1, width
		}

		fmt.Fprintf(bw, "%s%s |%s%s%s| %3d-%-3d w%d\n",
			e.Name,
			strings.Repeat(" ", nameWidth-utf8.RuneCountInString(e.Name)),
			strings.Repeat(" ", from),
			strings.Repeat("#", to-from),
			strings.Repeat(" ", width-to),
			e.Start, e.End, e.Worker,
		)
	}

	end := strconv.Itoa(run.Metrics.Makespan)
	gap := width - len(end)
	if gap < 1 {
		gap = 1
	}
	fmt.Fprintf(bw, "%s  0%s%s\n", strings.Repeat(" ", nameWidth), strings.Repeat(" ", gap), end)

	return bw.Flush()
}
