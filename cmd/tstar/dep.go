package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies",
	Long:  `Commands for managing dependencies between tasks.`,
}

var depAddCmd = &cobra.Command{
	Use:   "add <child> <parent>",
	Short: "Add a dependency",
	Long: `Make child depend on parent. The child cannot start before the
parent ends. Edges that would close a cycle are rejected.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		child, parent := args[0], args[1]

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		if _, err := c.AddDependency(context.Background(), child, parent); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Added dependency: %s depends on %s", child, parent), jsonOutput)
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm <child> <parent>",
	Short: "Remove a dependency",
	Long:  `Remove a dependency between two tasks.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		child, parent := args[0], args[1]

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.RemoveDependency(context.Background(), child, parent); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Removed dependency: %s no longer depends on %s", child, parent), jsonOutput)
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List dependencies",
	Long:  `List the tasks a task depends on.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		deps, err := c.ListDependencies(ctx, args[0])
		if err != nil {
			handleError(err)
		}

		names := map[string]string{}
		if tasks, err := c.ListAllTasks(ctx); err == nil {
			for _, t := range tasks {
				names[t.ID] = t.Name
			}
		}

		printDependencies(os.Stdout, args[0], deps, names, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(depCmd)

	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depListCmd)
}
