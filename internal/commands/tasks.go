package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage homework tasks",
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newAppFunc(cmd.Context())
		defer a.Close()

		list := a.workspace.Tasks().List()
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]  %s\n", t.ID, statusMark(t.Status), t.Title)
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newAppFunc(cmd.Context())
		defer a.Close()

		description, _ := cmd.Flags().GetString("description")
		task, err := a.workspace.CreateTask(cmd.Context(), strings.Join(args, " "), description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

var tasksToggleCmd = &cobra.Command{
	Use:   "toggle [task-id]",
	Short: "Flip a task between completed and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newAppFunc(cmd.Context())
		defer a.Close()

		task, err := a.workspace.ToggleTask(cmd.Context(), domain.TaskID(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status)
		return nil
	},
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status [task-id] [pending|in_progress|completed]",
	Short: "Set the status of a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := domain.ParseTaskStatus(args[1])
		if !ok {
			return fmt.Errorf("invalid status %q", args[1])
		}

		a := newAppFunc(cmd.Context())
		defer a.Close()

		task, err := a.workspace.SetTaskStatus(cmd.Context(), domain.TaskID(args[0]), status)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newAppFunc(cmd.Context())
		defer a.Close()

		if err := a.workspace.DeleteTask(cmd.Context(), domain.TaskID(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
		return nil
	},
}

func statusMark(s domain.TaskStatus) string {
	switch s {
	case domain.TaskStatusCompleted:
		return "x"
	case domain.TaskStatusInProgress:
		return "~"
	default:
		return " "
	}
}

func init() {
	tasksAddCmd.Flags().StringP("description", "d", "", "optional task description")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksToggleCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}
