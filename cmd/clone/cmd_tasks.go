package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clonectl/internal/logging"
)

// fetchTaskCmd consumes one queued task
var fetchTaskCmd = &cobra.Command{
	Use:   "fetch-task",
	Short: "Request a queued task",
	Long: `Consumes the next queued task and prints it, or "(no task)" when the
queue is empty. The task is removed from the queue: no other clone will be
given it. Running this twice may return two different tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		got, err := client.FetchTask(cmd.Context())
		if err != nil {
			return reportRemote(cmd, err)
		}
		return printLine(cmd, got.String())
	},
}

// listTasksCmd enumerates the queue without consuming
var listTasksCmd = &cobra.Command{
	Use:   "list-tasks",
	Short: "List queued tasks without consuming them",
	Long: `Prints every queued task, one per line, in queue order. Nothing is
consumed. Another clone may fetch a listed task before you do, so a
listed task is not guaranteed to be handed to you by fetch-task.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := client.ListTasks(cmd.Context())
		if err != nil {
			return reportRemote(cmd, err)
		}
		logging.Get(logger, logging.CategoryCLI).Debug("tasks listed", zap.Int("count", len(tasks)))
		for _, t := range tasks {
			if err := printLine(cmd, t); err != nil {
				return err
			}
		}
		return nil
	},
}
