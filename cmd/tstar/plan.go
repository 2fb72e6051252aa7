package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/config"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/gantt"
	"github.com/taskstar/taskstar/internal/logger"
	"github.com/taskstar/taskstar/internal/scheduler"
	"github.com/taskstar/taskstar/internal/taskfile"
)

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Schedule a task file offline",
	Long: `Schedule the tasks in a YAML, TOML, JSON or HCL file locally, without
a server or project, and print the result.

With --compare every algorithm given by --algo (astar and greedy by
default) is run and the metrics are compared.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cwd, _ := os.Getwd()
		home, _ := os.UserHomeDir()
		defaults, err := config.ResolveSchedulerConfig(cwd, home)
		if err != nil {
			handleError(err)
		}

		algos, _ := cmd.Flags().GetStringSlice("algo")
		algo := ""
		if len(algos) == 1 {
			algo = algos[0]
		}
		opts, err := scheduleOptionsFromFlags(cmd, defaults, algo)
		if err != nil {
			handleError(err)
		}

		compare, _ := cmd.Flags().GetBool("compare")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		f, err := resolveGanttFormat(format, out)
		if err != nil {
			handleError(err)
		}

		log, closeLog, err := cliLogger()
		if err != nil {
			handleError(err)
		}
		defer closeLog()

		req := planRequest{
			Path:       args[0],
			Options:    scheduler.Options{Workers: opts.Workers, MaxExpansions: opts.MaxExpansions},
			Algorithm:  opts.Algorithm,
			Compare:    compare,
			Algorithms: toAlgorithms(algos),
			Format:     f,
		}

		var buf bytes.Buffer
		if err := runPlan(context.Background(), &buf, req, log); err != nil {
			handleError(err)
		}
		if err := writeOutput(os.Stdout, out, buf.Bytes()); err != nil {
			handleError(err)
		}
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a sample task file",
	Long: `Print the five-task sample project (Design, Frontend, Backend,
Database, Testing) as a task file that 'tstar plan' and 'tstar import'
accept.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		f, err := taskfile.ParseFormat(format)
		if err != nil {
			handleError(err)
		}
		if err := taskfile.Write(os.Stdout, taskfile.Example(), f); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(exampleCmd)

	planCmd.Flags().StringSlice("algo", nil, "Algorithm, or algorithms with --compare")
	addLimitFlags(planCmd)
	planCmd.Flags().Bool("compare", false, "Compare algorithms instead of printing one schedule")
	planCmd.Flags().StringP("format", "f", "", "Output format: text, svg, html, markdown, json")
	planCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	exampleCmd.Flags().StringP("format", "f", "yaml", "File format: yaml, toml, json, hcl")
}

// planRequest describes one offline planning run.
type planRequest struct {
	Path       string
	Options    scheduler.Options
	Algorithm  domain.Algorithm
	Compare    bool
	Algorithms []domain.Algorithm
	Format     gantt.Format
}

// runPlan schedules a task file and writes the result to w.
func runPlan(ctx context.Context, w io.Writer, req planRequest, log *zap.Logger) error {
	defs, err := loadTaskFile(req.Path)
	if err != nil {
		return err
	}

	plan, err := scheduler.NewPlan(taskfile.ToSchedulerTasks(defs), req.Options)
	if err != nil {
		return err
	}

	if req.Compare {
		cmp, err := scheduler.Compare(ctx, plan, log, req.Algorithms...)
		if err != nil {
			return err
		}
		printComparison(w, comparisonOf(plan, cmp), jsonOutput || req.Format == gantt.FormatJSON)
		return nil
	}

	algo := req.Algorithm
	if algo == "" {
		algo = domain.DefaultAlgorithm
	}
	res, err := scheduler.Run(ctx, plan, algo, log)
	if err != nil {
		return err
	}
	run := res.Run()

	if req.Format == gantt.FormatText || req.Format == "" {
		return printRun(w, &run, jsonOutput)
	}
	return gantt.Render(w, run, req.Format)
}

func comparisonOf(plan *scheduler.Plan, cmp *scheduler.Comparison) *domain.Comparison {
	out := &domain.Comparison{
		Workers: plan.Workers(),
		Best:    cmp.Best.Algorithm,
		Runs:    make([]domain.ScheduleRun, len(cmp.Results)),
	}
	for i, r := range cmp.Results {
		out.Runs[i] = r.Run()
	}
	return out
}

// cliLogger logs warnings, such as the search fallback, to stderr.
func cliLogger() (*zap.Logger, func(), error) {
	level := os.Getenv(config.EnvLogLevel)
	if level == "" {
		level = "warn"
	}
	log, closeLog, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, closeLog, nil
}
