package taskfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskstar/taskstar/internal/scheduler"
)

const yamlDoc = `
tasks:
  - name: Design
    duration: 3
    description: Wireframes
  - name: Backend
    duration: 5
    depends_on: [Design]
`

const tomlDoc = `
[[tasks]]
name = "Design"
duration = 3
description = "Wireframes"

[[tasks]]
name = "Backend"
duration = 5
depends_on = ["Design"]
`

const jsonDoc = `{
  "tasks": [
    {"name": "Design", "duration": 3, "description": "Wireframes"},
    {"name": "Backend", "duration": 5, "depends_on": ["Design"]}
  ]
}`

const hclDoc = `
task "Design" {
  duration    = 3
  description = "Wireframes"
}

task "Backend" {
  duration   = 5
  depends_on = ["Design"]
}
`

func wantDefs() []Definition {
	return []Definition{
		{Name: "Design", Duration: 3, Description: "Wireframes"},
		{Name: "Backend", Duration: 5, DependsOn: []string{"Design"}},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		format Format
		doc    string
	}{
		{FormatYAML, yamlDoc},
		{FormatTOML, tomlDoc},
		{FormatJSON, jsonDoc},
		{FormatHCL, hclDoc},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			defs, err := Parse([]byte(tt.doc), tt.format)
			require.NoError(t, err)
			if diff := cmp.Diff(wantDefs(), defs); diff != "" {
				t.Errorf("definitions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"bad yaml", FormatYAML, "tasks: ["},
		{"bad toml", FormatTOML, "[[tasks]\nname="},
		{"unknown json field", FormatJSON, `{"tasks":[{"name":"a","duration":1,"after":["b"]}]}`},
		{"hcl missing duration", FormatHCL, `task "a" {}`},
		{"hcl unknown attribute", FormatHCL, `task "a" { duration = 1  owner = "me" }`},
		{"unknown format", "xml", "<tasks/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"tasks.yaml":     FormatYAML,
		"tasks.YML":      FormatYAML,
		"dir/tasks.toml": FormatTOML,
		"tasks.json":     FormatJSON,
		"plan/tasks.hcl": FormatHCL,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("tasks.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"yaml": FormatYAML, "YML": FormatYAML, " toml ": FormatTOML, "hcl": FormatHCL} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tasks.yaml": yamlDoc,
		"tasks.toml": tomlDoc,
		"tasks.json": jsonDoc,
		"tasks.hcl":  hclDoc,
	}

	for name, doc := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		defs, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, wantDefs(), defs, name)
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "tasks.ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		wantErr string
	}{
		{"valid", Example(), ""},
		{"empty", nil, "no tasks"},
		{"missing name", []Definition{{Duration: 1}}, "name is required"},
		{"zero duration", []Definition{{Name: "a"}}, "duration"},
		{"long name", []Definition{{Name: strings.Repeat("x", 129), Duration: 1}}, "at most"},
		{"duplicate", []Definition{{Name: "a", Duration: 1}, {Name: "a", Duration: 2}}, "more than once"},
		{"unknown dependency", []Definition{{Name: "a", Duration: 1, DependsOn: []string{"b"}}}, "unknown task"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.defs)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite_ReadsBack(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON, FormatHCL} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, Example(), format))

			defs, err := Parse(buf.Bytes(), format)
			require.NoError(t, err, buf.String())
			if diff := cmp.Diff(Example(), defs); diff != "" {
				t.Errorf("definitions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.ErrorIs(t, Write(&bytes.Buffer{}, Example(), "ini"), ErrUnknownFormat)
}

func TestWrite_HCLLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Example()[:2], FormatHCL))

	out := buf.String()
	assert.Contains(t, out, `task "Design" {`)
	assert.Contains(t, out, `depends_on = ["Design"]`)
}

func TestExample_SchedulesLikeTheSample(t *testing.T) {
	p, err := scheduler.NewPlan(ToSchedulerTasks(Example()), scheduler.Options{})
	require.NoError(t, err)

	res, err := scheduler.AStar{}.Schedule(context.Background(), p)
	require.NoError(t, err)

	var order []string
	for _, e := range res.Entries {
		order = append(order, e.Name)
	}
	assert.Equal(t, []string{"Design", "Backend", "Database", "Frontend", "Testing"}, order)
	assert.Equal(t, 17, res.Metrics.Makespan)
}

func TestToSchedulerTasks_CopiesDependencies(t *testing.T) {
	defs := Example()
	tasks := ToSchedulerTasks(defs)
	require.Len(t, tasks, len(defs))

	tasks[4].Dependencies[0] = "changed"
	assert.Equal(t, "Frontend", defs[4].DependsOn[0])
	assert.Equal(t, "Testing", tasks[4].ID)
}
