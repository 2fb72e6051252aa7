package gantt

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/taskstar/taskstar/internal/domain"
)

// Markdown writes a summary of run: its metrics followed by a table of
// entries in dispatch order.
func Markdown(w io.Writer, run domain.ScheduleRun) error {
	var b strings.Builder
	m := run.Metrics

	fmt.Fprintf(&b, "# %s\n\n", DefaultTitle)
	if run.ID != "" {
		fmt.Fprintf(&b, "- **Schedule:** %s\n", run.ID)
	}
	fmt.Fprintf(&b, "- **Algorithm:** %s\n", run.Algorithm)
	fmt.Fprintf(&b, "- **Workers:** %d\n", run.Workers)
	if run.Algorithm == domain.AlgorithmSearch {
		fmt.Fprintf(&b, "- **Optimal:** %t (%d expansions)\n", run.Optimal, run.Expansions)
	}
	fmt.Fprintf(&b, "- **Total Tasks:** %d\n", m.TotalTasks)
	fmt.Fprintf(&b, "- **Total Time:** %d\n", m.Makespan)
	fmt.Fprintf(&b, "- **Earliest Finish:** %d\n", m.EarliestFinish)
	fmt.Fprintf(&b, "- **Total Completion:** %d\n", m.TotalCompletion)
	fmt.Fprintf(&b, "- **Average Completion:** %.2f\n", m.AverageCompletion)
	fmt.Fprintf(&b, "- **Utilization:** %.1f%%\n\n", m.Utilization*100)

	b.WriteString("| Task | Start | End | Worker |\n")
	b.WriteString("|------|------:|----:|-------:|\n")
	for _, e := range run.Entries {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", cell(e.Name), e.Start, e.End, e.Worker)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var page = template.Must(template.New("report").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body{font-family:sans-serif;max-width:900px;margin:2em auto;color:#222}
table{border-collapse:collapse}
th,td{border:1px solid #ccc;padding:4px 10px}
</style></head>
<body>
{{.Chart}}
{{.Summary}}
</body></html>
`))

// HTML writes a standalone page with the SVG chart and the Markdown
// summary rendered to HTML.
func HTML(w io.Writer, run domain.ScheduleRun) error {
	var md bytes.Buffer
	if err := Markdown(&md, run); err != nil {
		return err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	summary := markdown.ToHTML(md.Bytes(), p, r)

	var chart bytes.Buffer
	if err := SVG(&chart, run, SVGOptions{}); err != nil {
		return err
	}

	return page.Execute(w, struct {
		Title   string
		Chart   template.HTML
		Summary template.HTML
	}{
		Title:   DefaultTitle,
		Chart:   template.HTML(chart.String()),
		Summary: template.HTML(summary),
	})
}
