package gantt

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/taskstar/taskstar/internal/domain"
)

// SVG defaults.
const (
	DefaultSVGWidth  = 800
	DefaultSVGHeight = 400
)

const (
	marginLeft   = 140
	marginRight  = 30
	marginTop    = 50
	marginBottom = 50
	maxTicks     = 10
)

// palette colors bars by worker.
var palette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// SVGOptions configures SVG. Zero values select defaults.
type SVGOptions struct {
	Width  int
	Height int
	Title  string
}

// SVG draws run as a standalone SVG document with a horizontal bar per
// entry. Hovering a bar shows the task name, start and finish.
func SVG(w io.Writer, run domain.ScheduleRun, opts SVGOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultSVGWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultSVGHeight
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	width, height := float64(opts.Width), float64(opts.Height)
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBottom

	makespan := run.Metrics.Makespan
	if makespan <= 0 {
		makespan = 1
	}
	x := func(t int) float64 { return marginLeft + float64(t)*plotW/float64(makespan) }

	rows := len(run.Entries)
	if rows == 0 {
		rows = 1
	}
	rowH := plotH / float64(rows)
	barH := rowH * 0.7

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", opts.Width, opts.Height)
	fmt.Fprintf(bw, `<text x="%.1f" y="28" text-anchor="middle" font-size="16">%s</text>`+"\n", width/2, esc(opts.Title))

	// Grid and ticks.
	step := (makespan + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}
	axisY := marginTop + plotH
	for t := 0; t <= makespan; t += step {
		fmt.Fprintf(bw, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e5e5e5"/>`+"\n",
			x(t), float64(marginTop), x(t), axisY)
		fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" text-anchor="middle">%d</text>`+"\n", x(t), axisY+16, t)
	}
	fmt.Fprintf(bw, `<line x1="%d" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444444"/>`+"\n",
		marginLeft, axisY, width-marginRight, axisY)

	// Axis labels.
	fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" text-anchor="middle">Time</text>`+"\n",
		marginLeft+plotW/2, height-12)
	fmt.Fprintf(bw, `<text x="16" y="%.1f" text-anchor="middle" transform="rotate(-90 16 %.1f)">Tasks</text>`+"\n",
		marginTop+plotH/2, marginTop+plotH/2)

	for i, e := range run.Entries {
		y := marginTop + float64(i)*rowH + (rowH-barH)/2
		barW := x(e.End) - x(e.Start)
		if barW < 1 {
			barW = 1
		}
		color := palette[e.Worker%len(palette)]

		fmt.Fprintf(bw, `<text x="%d" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			marginLeft-8, y+barH/2, esc(e.Name))
		fmt.Fprintf(bw, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s">`,
			x(e.Start), y, barW, barH, color)
		fmt.Fprintf(bw, `<title>%s&#10;Start: %d&#10;Finish: %d&#10;Worker: %d</title></rect>`+"\n",
			esc(e.Name), e.Start, e.End, e.Worker)
	}

	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}

func esc(s string) string {
	return html.EscapeString(s)
}
