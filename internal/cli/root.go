package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "planboard",
	Short: "Planboard - dependency-aware project task tracker",
	Long: `Planboard is a single-project task tracking dashboard built around a
dependency-aware scheduling engine. It computes each task's earliest feasible
start and end dates from its prerequisite graph, keeps the workflow status of
every task consistent with that schedule, and recalculates all downstream
dates whenever an upstream task changes.

Commands act as a chosen user (--as) whose roles determine what they may do;
the holder of the leader role approves completions and resolves problems.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("planboard %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
