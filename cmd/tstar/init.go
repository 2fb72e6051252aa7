package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a new taskstar project",
	Long: `Create a taskstar.toml configuration file in the current directory.

The project name selects the database the server keeps this project's
tasks and schedules in.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")

		if _, err := config.WriteProjectConfig(".", args[0], host, port); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Created %s for project '%s'", config.ConfigFileName, args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("host", "", "Server host")
	initCmd.Flags().Int("port", 0, "Server port")
}
