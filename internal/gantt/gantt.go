// Package gantt renders schedule runs as Gantt charts and reports.
package gantt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/taskstar/taskstar/internal/domain"
)

// DefaultTitle is the chart title used when none is given.
const DefaultTitle = "Task Scheduling Gantt Chart"

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatSVG      Format = "svg"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatSVG, FormatHTML, FormatMarkdown, FormatJSON}

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatSVG, FormatHTML, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown gantt format %q", s)
	}
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes run in the given format with default options.
func Render(w io.Writer, run domain.ScheduleRun, format Format) error {
	switch format {
	case FormatText:
		return Text(w, run, TextOptions{})
	case FormatSVG:
		return SVG(w, run, SVGOptions{})
	case FormatHTML:
		return HTML(w, run)
	case FormatMarkdown:
		return Markdown(w, run)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	default:
		return fmt.Errorf("unknown gantt format %q", format)
	}
}

func workerLabel(n int) string {
	if n == 1 {
		return "1 worker"
	}
	return fmt.Sprintf("%d workers", n)
}
