package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/domain"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task",
	Long: `Add a task with a duration in time units.

Use --after to make the new task depend on existing tasks, by ID or name:
  tstar add Testing --duration 2 --after Frontend --after Backend`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		duration, _ := cmd.Flags().GetInt("duration")
		description, _ := cmd.Flags().GetString("description")
		after, _ := cmd.Flags().GetStringSlice("after")

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := runAdd(context.Background(), c, args[0], duration, description, after)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks in the order they were added.`,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.ListTasks(context.Background(), page, perPage)
		if err != nil {
			handleError(err)
		}

		printTaskList(os.Stdout, result.Data, result.Pagination, jsonOutput)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Long:  `Display a task, looked up by ID or name.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.GetTask(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long:  `Change a task's name, duration or description.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updates, err := updatesFromFlags(cmd)
		if err != nil {
			handleError(err)
		}

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.UpdateTask(context.Background(), args[0], updates)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a task",
	Long:  `Remove a task and every dependency edge that touches it.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.DeleteTask(context.Background(), args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Task %s removed", args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(rmCmd)

	addCmd.Flags().IntP("duration", "d", 0, "Duration in time units (required)")
	addCmd.Flags().String("description", "", "Task description")
	addCmd.Flags().StringSliceP("after", "a", nil, "Tasks this one depends on")
	addCmd.MarkFlagRequired("duration")

	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("per-page", 50, "Items per page")

	updateCmd.Flags().StringP("name", "n", "", "New name")
	updateCmd.Flags().IntP("duration", "d", 0, "New duration")
	updateCmd.Flags().String("description", "", "New description")
}

// runAdd creates a task, then its dependencies.
func runAdd(ctx context.Context, c *client.Client, name string, duration int, description string, after []string) (*domain.Task, error) {
	task, err := c.CreateTask(ctx, name, duration, description)
	if err != nil {
		return nil, err
	}

	for _, parent := range after {
		if _, err := c.AddDependency(ctx, task.ID, parent); err != nil {
			return nil, fmt.Errorf("task %s created, but adding dependency on %s failed: %w", task.ID, parent, err)
		}
	}
	return task, nil
}

// updatesFromFlags collects the flags the user actually set.
func updatesFromFlags(cmd *cobra.Command) (client.TaskUpdates, error) {
	var updates client.TaskUpdates
	flags := cmd.Flags()

	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		updates.Name = &name
	}
	if flags.Changed("duration") {
		duration, _ := flags.GetInt("duration")
		updates.Duration = &duration
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		updates.Description = &description
	}

	if updates.IsEmpty() {
		return updates, domain.NewValidationError([]string{"nothing to update: use --name, --duration or --description"})
	}
	return updates, nil
}
