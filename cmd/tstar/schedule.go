package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/config"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/gantt"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule the project's tasks",
	Long: `Schedule every task on the server, store the run, and print its Gantt
chart and metrics.

Algorithms:
  astar   one pass, picking the ready task with the lowest f = g + h + duration
  greedy  earliest start first
  search  A* over dispatch orders, minimizing total completion time

Defaults come from the [scheduler] section of taskstar.toml.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, cfg, err := getClient()
		if err != nil {
			handleError(err)
		}

		algo, _ := cmd.Flags().GetString("algo")
		opts, err := scheduleOptionsFromFlags(cmd, cfg.Scheduler, algo)
		if err != nil {
			handleError(err)
		}

		run, err := c.RunSchedule(context.Background(), opts)
		if err != nil {
			handleError(err)
		}

		if err := printRun(os.Stdout, run, jsonOutput); err != nil {
			handleError(err)
		}
	},
}

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List stored schedules",
	Long:  `List the project's stored schedule runs, newest first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.ListSchedules(context.Background(), page, perPage)
		if err != nil {
			handleError(err)
		}

		printRunList(os.Stdout, result.Data, result.Pagination, jsonOutput)
	},
}

var ganttCmd = &cobra.Command{
	Use:   "gantt <schedule-id>",
	Short: "Render a stored schedule",
	Long: `Render a stored schedule as a Gantt chart.

Formats: text, svg, html, markdown, json. Without --format the format
follows the --out extension, or text when writing to stdout.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		f, err := resolveGanttFormat(format, out)
		if err != nil {
			handleError(err)
		}

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		body, err := c.Gantt(context.Background(), args[0], string(f))
		if err != nil {
			handleError(err)
		}

		if err := writeOutput(os.Stdout, out, body); err != nil {
			handleError(err)
		}
		if out != "" {
			printSuccess(os.Stdout, fmt.Sprintf("Wrote %s chart to %s", f, out), jsonOutput)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare scheduling algorithms",
	Long: `Schedule the project's tasks with several algorithms and compare
their metrics. Nothing is stored. The best algorithm has the lowest total
completion time, then the lowest makespan.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, cfg, err := getClient()
		if err != nil {
			handleError(err)
		}

		opts, err := scheduleOptionsFromFlags(cmd, cfg.Scheduler, "")
		if err != nil {
			handleError(err)
		}
		algos, _ := cmd.Flags().GetStringSlice("algo")

		cmp, err := c.Compare(context.Background(), client.CompareOptions{
			Algorithms:    toAlgorithms(algos),
			Workers:       opts.Workers,
			MaxExpansions: opts.MaxExpansions,
		})
		if err != nil {
			handleError(err)
		}

		printComparison(os.Stdout, cmp, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(ganttCmd)
	rootCmd.AddCommand(compareCmd)

	scheduleCmd.Flags().String("algo", "", "Algorithm: astar, greedy or search")
	addLimitFlags(scheduleCmd)

	schedulesCmd.Flags().Int("page", 1, "Page number")
	schedulesCmd.Flags().Int("per-page", 20, "Items per page")

	ganttCmd.Flags().StringP("format", "f", "", "Output format: text, svg, html, markdown, json")
	ganttCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	compareCmd.Flags().StringSlice("algo", nil, "Algorithms to compare (default astar,greedy)")
	addLimitFlags(compareCmd)
}

func addLimitFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "w", 0, "Number of parallel workers")
	cmd.Flags().Int("max-expansions", 0, "Expansion budget for the search algorithm")
}

// scheduleOptionsFromFlags overlays the flags the user set onto the
// configured defaults. An empty algo keeps the default algorithm.
func scheduleOptionsFromFlags(cmd *cobra.Command, defaults config.SchedulerConfig, algo string) (client.ScheduleOptions, error) {
	opts := client.ScheduleOptions{
		Algorithm:     defaults.Algorithm,
		Workers:       defaults.Workers,
		MaxExpansions: defaults.MaxExpansions,
	}
	flags := cmd.Flags()

	if algo != "" {
		opts.Algorithm = domain.Algorithm(strings.ToLower(algo))
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("max-expansions") {
		opts.MaxExpansions, _ = flags.GetInt("max-expansions")
	}

	var details []string
	if opts.Algorithm != "" && !opts.Algorithm.IsValid() {
		details = append(details, fmt.Sprintf("unknown algorithm %q", opts.Algorithm))
	}
	if opts.Workers != 0 && !domain.ValidWorkers(opts.Workers) {
		details = append(details, fmt.Sprintf("workers must be between 1 and %d", domain.MaxWorkers))
	}
	if opts.MaxExpansions < 0 {
		details = append(details, "max-expansions must not be negative")
	}
	if len(details) > 0 {
		return opts, domain.NewValidationError(details)
	}
	return opts, nil
}

func toAlgorithms(names []string) []domain.Algorithm {
	algos := make([]domain.Algorithm, len(names))
	for i, n := range names {
		algos[i] = domain.Algorithm(strings.ToLower(strings.TrimSpace(n)))
	}
	return algos
}

// resolveGanttFormat picks the chart format from the flag, then the output
// file extension, then text.
func resolveGanttFormat(format, out string) (gantt.Format, error) {
	if format != "" {
		f, err := gantt.ParseFormat(format)
		if err != nil {
			return "", domain.NewValidationError([]string{err.Error()})
		}
		return f, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		if f, err := gantt.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return gantt.FormatText, nil
}

// writeOutput writes body to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, body []byte) error {
	if path == "" {
		_, err := w.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
