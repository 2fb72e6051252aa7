package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/gantt"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task *domain.Task, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", task.Name)
	fmt.Fprintf(tw, "Duration:\t%d\n", task.Duration)
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *task.Description)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Format(timeLayout))
	tw.Flush()
}

// printTaskList prints a list of tasks with pagination info
func printTaskList(w io.Writer, tasks []*domain.Task, pagination client.Pagination, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, client.TaskListResponse{Data: tasks, Pagination: pagination})
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tDURATION\n")
	fmt.Fprintf(tw, "--\t----\t--------\n")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", task.ID, truncate(task.Name, 40), task.Duration)
	}
	tw.Flush()

	if pagination.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total tasks)\n",
			pagination.Page, pagination.TotalPages, pagination.Total)
	}
}

// printDependencies prints what a task depends on. names maps task IDs to
// names and may be nil.
func printDependencies(w io.Writer, ref string, deps []domain.Dependency, names map[string]string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, deps)
		return
	}

	if len(deps) == 0 {
		fmt.Fprintf(w, "Task %s has no dependencies\n", ref)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "DEPENDS ON\tNAME\n")
	fmt.Fprintf(tw, "----------\t----\n")
	for _, dep := range deps {
		fmt.Fprintf(tw, "%s\t%s\n", dep.ParentID, names[dep.ParentID])
	}
	tw.Flush()
}

// printHistory prints task history/audit entries
func printHistory(w io.Writer, entries []domain.AuditEntry, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, entries)
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history found")
		return
	}

	deref := func(s *string, n int) string {
		if s == nil {
			return ""
		}
		return truncate(*s, n)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TIME\tACTION\tFIELD\tOLD\tNEW\tBY\n")
	fmt.Fprintf(tw, "----\t------\t-----\t---\t---\t--\n")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ChangedAt.Format(timeLayout),
			entry.Action,
			deref(entry.Field, 20),
			deref(entry.OldValue, 20),
			deref(entry.NewValue, 20),
			truncate(entry.ChangedBy, 30))
	}
	tw.Flush()
}

// printRun prints the text Gantt chart of a run followed by its metrics.
func printRun(w io.Writer, run *domain.ScheduleRun, jsonOutput bool) error {
	if jsonOutput {
		printJSON(w, run)
		return nil
	}

	if run.ID != "" {
		fmt.Fprintf(w, "Schedule %s\n", run.ID)
	}
	if err := gantt.Text(w, *run, gantt.TextOptions{}); err != nil {
		return err
	}
	fmt.Fprintln(w)
	printMetrics(w, run)
	return nil
}

func printMetrics(w io.Writer, run *domain.ScheduleRun) {
	m := run.Metrics
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tasks:\t%d\n", m.TotalTasks)
	fmt.Fprintf(tw, "Makespan:\t%d\n", m.Makespan)
	fmt.Fprintf(tw, "Earliest finish:\t%d\n", m.EarliestFinish)
	fmt.Fprintf(tw, "Total completion:\t%d\n", m.TotalCompletion)
	fmt.Fprintf(tw, "Average completion:\t%.2f\n", m.AverageCompletion)
	fmt.Fprintf(tw, "Utilization:\t%.1f%%\n", m.Utilization*100)
	if run.Algorithm == domain.AlgorithmSearch {
		fmt.Fprintf(tw, "Optimal:\t%t (%d expansions)\n", run.Optimal, run.Expansions)
	}
	tw.Flush()
}

// printRunList prints stored schedule runs
func printRunList(w io.Writer, runs []*domain.ScheduleRun, pagination client.Pagination, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, client.ScheduleListResponse{Data: runs, Pagination: pagination})
		return
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No schedules found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tALGORITHM\tWORKERS\tMAKESPAN\tTOTAL\tCREATED\n")
	fmt.Fprintf(tw, "--\t---------\t-------\t--------\t-----\t-------\n")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID, run.Algorithm, run.Workers, run.Metrics.Makespan,
			run.Metrics.TotalCompletion, run.CreatedAt.Format(timeLayout))
	}
	tw.Flush()
}

// printComparison prints one row per algorithm, marking the best.
func printComparison(w io.Writer, cmp *domain.Comparison, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, cmp)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tALGORITHM\tMAKESPAN\tTOTAL\tAVERAGE\tUTILIZATION\n")
	for _, run := range cmp.Runs {
		mark := ""
		if run.Algorithm == cmp.Best {
			mark = "*"
		}
		m := run.Metrics
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.1f%%\n",
			mark, run.Algorithm, m.Makespan, m.TotalCompletion, m.AverageCompletion, m.Utilization*100)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nBest: %s (%s)\n", cmp.Best, workerCount(cmp.Workers))
}

func workerCount(n int) string {
	if n == 1 {
		return "1 worker"
	}
	return fmt.Sprintf("%d workers", n)
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]any{
			"error": map[string]any{
				"message": err.Error(),
			},
		})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]any{"message": message})
		return
	}

	fmt.Fprintln(w, message)
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
