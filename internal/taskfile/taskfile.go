// Package taskfile reads and writes task definition files in YAML, TOML,
// JSON and HCL.
package taskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/scheduler"
)

// Format is a task file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ErrUnknownFormat is returned for unsupported file extensions and formats.
var ErrUnknownFormat = errors.New("unknown task file format")

// Definition is one task as written in a task file.
type Definition struct {
	Name        string   `yaml:"name" toml:"name" json:"name"`
	Duration    int      `yaml:"duration" toml:"duration" json:"duration"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty" toml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// file is the document shape shared by YAML, TOML and JSON.
type file struct {
	Tasks []Definition `yaml:"tasks" toml:"tasks" json:"tasks"`
}

// Validate checks a single definition.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("task name is required")
	}
	if !domain.ValidName(d.Name) {
		return fmt.Errorf("task %q: name must be at most %d characters", d.Name, domain.MaxNameLength)
	}
	if !domain.ValidDuration(d.Duration) {
		return fmt.Errorf("task %q: duration must be between 1 and %d", d.Name, domain.MaxDuration)
	}
	return nil
}

// Validate checks every definition, that names are unique and that every
// dependency names a task in the file.
func Validate(defs []Definition) error {
	if len(defs) == 0 {
		return errors.New("task file defines no tasks")
	}

	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
		if names[d.Name] {
			return fmt.Errorf("task %q defined more than once", d.Name)
		}
		names[d.Name] = true
	}

	for _, d := range defs {
		for _, dep := range d.DependsOn {
			if !names[dep] {
				return fmt.Errorf("task %q depends on unknown task %q", d.Name, dep)
			}
		}
	}
	return nil
}

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatTOML, FormatJSON, FormatHCL:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads a task file, choosing the format from its extension.
func Load(path string) ([]Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	defs, err := parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes task definitions. Definitions keep their file order.
func Parse(data []byte, format Format) ([]Definition, error) {
	return parse(data, format, "tasks."+string(format))
}

func parse(data []byte, format Format, filename string) ([]Definition, error) {
	var f file
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case FormatHCL:
		defs, err := parseHCL(data, filename)
		if err != nil {
			return nil, err
		}
		f.Tasks = defs
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return f.Tasks, nil
}

// Write encodes definitions in the given format.
func Write(w io.Writer, defs []Definition, format Format) error {
	f := file{Tasks: defs}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatHCL:
		return writeHCL(w, defs)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ToSchedulerTasks converts definitions to scheduler tasks, using each name
// as the task ID.
func ToSchedulerTasks(defs []Definition) []scheduler.Task {
	tasks := make([]scheduler.Task, len(defs))
	for i, d := range defs {
		tasks[i] = scheduler.Task{
			ID:           d.Name,
			Name:         d.Name,
			Duration:     d.Duration,
			Dependencies: append([]string(nil), d.DependsOn...),
		}
	}
	return tasks
}

// Example returns the sample project: five tasks from design to testing.
func Example() []Definition {
	return []Definition{
		{Name: "Design", Duration: 3, Description: "Wireframes and architecture"},
		{Name: "Frontend", Duration: 4, DependsOn: []string{"Design"}},
		{Name: "Backend", Duration: 5, DependsOn: []string{"Design"}},
		{Name: "Database", Duration: 3, DependsOn: []string{"Backend"}},
		{Name: "Testing", Duration: 2, DependsOn: []string{"Frontend", "Backend", "Database"}},
	}
}
