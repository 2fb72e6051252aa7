package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/taskfile"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from a file",
	Long: `Create every task in a YAML, TOML, JSON or HCL task file, then the
dependencies between them. The format follows the file extension.

Run 'tstar example' for a sample file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defs, err := loadTaskFile(args[0])
		if err != nil {
			handleError(err)
		}

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		tasks, edges, err := runImport(context.Background(), c, defs)
		if err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Imported %d tasks and %d dependencies from %s", tasks, edges, args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// loadTaskFile loads and validates a task file. Validation problems are
// reported as validation errors.
func loadTaskFile(path string) ([]taskfile.Definition, error) {
	defs, err := taskfile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := taskfile.Validate(defs); err != nil {
		return nil, domain.NewValidationError([]string{err.Error()})
	}
	return defs, nil
}

// runImport creates all tasks first so dependencies can refer to any of
// them by name.
func runImport(ctx context.Context, c *client.Client, defs []taskfile.Definition) (int, int, error) {
	ids := make(map[string]string, len(defs))
	for _, d := range defs {
		task, err := c.CreateTask(ctx, d.Name, d.Duration, d.Description)
		if err != nil {
			return len(ids), 0, fmt.Errorf("import %q: %w", d.Name, err)
		}
		ids[d.Name] = task.ID
	}

	edges := 0
	for _, d := range defs {
		for _, dep := range d.DependsOn {
			if _, err := c.AddDependency(ctx, ids[d.Name], ids[dep]); err != nil {
				return len(ids), edges, fmt.Errorf("import %q depends on %q: %w", d.Name, dep, err)
			}
			edges++
		}
	}
	return len(ids), edges, nil
}
