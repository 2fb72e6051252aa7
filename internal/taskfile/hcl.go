package taskfile

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the top-level structure of an HCL task file:
//
//	task "Backend" {
//	  duration   = 5
//	  depends_on = ["Design"]
//	}
type hclFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

type hclTask struct {
	Name        string   `hcl:"name,label"`
	Duration    int      `hcl:"duration"`
	Description *string  `hcl:"description,optional"`
	DependsOn   []string `hcl:"depends_on,optional"`
}

func parseHCL(data []byte, filename string) ([]Definition, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(f.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	defs := make([]Definition, 0, len(parsed.Tasks))
	for _, t := range parsed.Tasks {
		d := Definition{Name: t.Name, Duration: t.Duration, DependsOn: t.DependsOn}
		if t.Description != nil {
			d.Description = *t.Description
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func writeHCL(w io.Writer, defs []Definition) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, d := range defs {
		if i > 0 {
			root.AppendNewline()
		}
		body := root.AppendNewBlock("task", []string{d.Name}).Body()
		body.SetAttributeValue("duration", cty.NumberIntVal(int64(d.Duration)))
		if d.Description != "" {
			body.SetAttributeValue("description", cty.StringVal(d.Description))
		}
		if len(d.DependsOn) > 0 {
			deps := make([]cty.Value, len(d.DependsOn))
			for j, dep := range d.DependsOn {
				deps[j] = cty.StringVal(dep)
			}
			body.SetAttributeValue("depends_on", cty.ListVal(deps))
		}
	}

	_, err := w.Write(hclwrite.Format(f.Bytes()))
	return err
}
