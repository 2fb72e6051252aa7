package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/pkg/idgen"
)

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show task or schedule history",
	Long: `Display the audit history for a task, given by ID or name, or for a
schedule run (IDs starting with sc-).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		entries, err := runHistory(context.Background(), c, args[0])
		if err != nil {
			handleError(err)
		}

		printHistory(os.Stdout, entries, jsonOutput)
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Long:  `Display the project audit log, newest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		var q client.AuditQuery
		q.Action, _ = cmd.Flags().GetString("action")
		q.Agent, _ = cmd.Flags().GetString("agent")
		q.Page, _ = cmd.Flags().GetInt("page")
		q.PerPage, _ = cmd.Flags().GetInt("per-page")

		c, _, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.QueryAudit(context.Background(), q)
		if err != nil {
			handleError(err)
		}

		printHistory(os.Stdout, result.Data, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().String("action", "", "Filter by action (create, update, delete, add_dependency, remove_dependency, schedule)")
	logCmd.Flags().String("agent", "", "Filter by agent")
	logCmd.Flags().Int("page", 1, "Page number")
	logCmd.Flags().Int("per-page", 20, "Items per page")
}

func runHistory(ctx context.Context, c *client.Client, ref string) ([]domain.AuditEntry, error) {
	if strings.HasPrefix(ref, idgen.SchedulePrefix+"-") {
		return c.GetScheduleHistory(ctx, ref)
	}
	return c.GetTaskHistory(ctx, ref)
}
