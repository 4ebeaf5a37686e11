package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/planboard/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect and act on a single task",
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show full task details, schedule, and dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := Engine.Store().Get(args[0])
		if !ok {
			return fmt.Errorf("task %s not found", args[0])
		}

		roleName := t.RoleID
		if r, ok := Directory.RoleByID(t.RoleID); ok {
			roleName = r.Name
		}
		var responsible []string
		for _, u := range Directory.UsersByRole(t.RoleID) {
			responsible = append(responsible, u.Name)
		}

		fmt.Printf("%d. %s [%s]\n", t.Sequence, t.Name, t.ID)
		if t.Description != "" {
			fmt.Printf("  %s\n", t.Description)
		}
		fmt.Printf("  Phase:       %s\n", t.Phase)
		fmt.Printf("  Responsible: %s (%s)\n", roleName, strings.Join(responsible, ", "))
		fmt.Printf("  Status:      %s\n", statusLabel(t))
		if t.Problem != "" {
			fmt.Printf("  Problem:     %s\n", t.Problem)
		}
		fmt.Printf("  Duration:    %s\n", durationLabel(t.DurationDays))
		fmt.Printf("  Computed:    %s -> %s\n", dateLabel(t.ComputedStart), dateLabel(t.ComputedEnd))
		fmt.Printf("  Actual:      %s -> %s\n", timeLabel(t.ActualStart), timeLabel(t.ActualEnd))
		fmt.Printf("  Approved:    %v\n", t.LeaderApproved)

		fmt.Println("  Prerequisites:")
		if len(t.Prerequisites) == 0 {
			fmt.Println("    (none)")
		}
		for _, id := range t.Prerequisites {
			if pre, ok := Engine.Store().Get(id); ok {
				mark := " "
				if pre.Status == models.StatusDone {
					mark = "x"
				}
				fmt.Printf("    [%s] %d. %s (%s)\n", mark, pre.Sequence, pre.Name, pre.Status)
			} else {
				fmt.Printf("    [?] %s (unresolved)\n", id)
			}
		}

		fmt.Println("  Successors:")
		succs := Engine.Store().Successors(t.ID)
		if len(succs) == 0 {
			fmt.Println("    (none)")
		}
		for _, s := range succs {
			fmt.Printf("    %d. %s (%s)\n", s.Sequence, s.Name, s.Status)
		}
		return nil
	},
}

// newTransitionCmd builds one workflow transition subcommand. check runs
// the permission convention for the acting user; apply invokes the engine.
func newTransitionCmd(use, short, done string, check func(*models.User, *models.Task) error, apply func(string) error) *cobra.Command {
	var asUser string
	cmd := &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}
			t, ok := Engine.Store().Get(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := check(actor, t); err != nil {
				return err
			}
			if err := apply(t.ID); err != nil {
				return err
			}
			notify(fmt.Sprintf("Task %d %s by %s", t.Sequence, done, actor.Name), actor.ID, t.ID)
			fmt.Printf("Task %d (%s) %s. Status: %s\n", t.Sequence, t.Name, done, t.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	return cmd
}

func requireResponsible(actor *models.User, t *models.Task) error {
	if !actor.HasRole(t.RoleID) {
		return fmt.Errorf("%s does not hold the responsible role for %s", actor.Name, t.ID)
	}
	return nil
}

func requireLeader(actor *models.User, t *models.Task) error {
	if !Directory.IsLeader(actor) {
		return fmt.Errorf("%s is not the project leader", actor.Name)
	}
	return nil
}

var taskStartCmd = newTransitionCmd("start", "Start work on a task", "started",
	requireResponsible,
	func(id string) error { return Engine.ChangeStatus(id, models.StatusInProgress, false) })

var taskCompleteCmd = newTransitionCmd("complete", "Mark a task complete and send it for approval", "sent for approval",
	requireResponsible,
	func(id string) error { return Engine.ChangeStatus(id, models.StatusPendingApproval, false) })

var taskApproveCmd = newTransitionCmd("approve", "Approve a completed task (leader only)", "approved as done",
	requireLeader,
	func(id string) error { return Engine.ChangeStatus(id, models.StatusDone, true) })

var taskRejectCmd = newTransitionCmd("reject", "Reject a pending approval back to in progress (leader only)", "rejected back to in progress",
	requireLeader,
	func(id string) error { return Engine.ChangeStatus(id, models.StatusInProgress, false) })

var taskResolveCmd = newTransitionCmd("resolve", "Mark a reported problem as resolved (leader only)", "problem resolved",
	requireLeader,
	func(id string) error { return Engine.ResolveProblem(id) })

var taskForceCmd = newTransitionCmd("force-complete", "Administratively complete a task (leader only)", "force-completed",
	requireLeader,
	func(id string) error { return Engine.ForceComplete(id) })

var taskProblemCmd = func() *cobra.Command {
	var asUser, message string
	cmd := &cobra.Command{
		Use:   "problem <task-id>",
		Short: "Report a problem on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}
			t, ok := Engine.Store().Get(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := requireResponsible(actor, t); err != nil {
				return err
			}
			if err := Engine.ReportProblem(t.ID, message); err != nil {
				return err
			}
			notify(fmt.Sprintf("Problem reported on task %d by %s: %q", t.Sequence, actor.Name, t.Problem), actor.ID, t.ID)
			if Notifier != nil {
				_ = Notifier.NotifyProblem(t.ID, t.Name, t.Problem) // best effort
			}
			fmt.Printf("Problem reported on task %d (%s): %s\n", t.Sequence, t.Name, t.Problem)
			return nil
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	cmd.Flags().StringVarP(&message, "message", "m", "", "problem description")
	return cmd
}()

var taskDurationCmd = func() *cobra.Command {
	var asUser string
	cmd := &cobra.Command{
		Use:   "duration <task-id> <days|clear>",
		Short: "Set or clear a task's estimated duration in work days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}
			t, ok := Engine.Store().Get(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if !Directory.CanEditDuration(actor, t) {
				return fmt.Errorf("%s may not edit the duration of %s", actor.Name, t.ID)
			}

			old := durationLabel(t.DurationDays)
			var days *int
			if args[1] != "clear" {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid duration %q: expected a number of days or \"clear\"", args[1])
				}
				days = &n
			}
			if err := Engine.SetDuration(t.ID, days); err != nil {
				return err
			}
			notify(fmt.Sprintf("Task %d duration changed from %s to %s by %s",
				t.Sequence, old, durationLabel(days), actor.Name), actor.ID, t.ID)
			fmt.Printf("Task %d (%s) duration: %s\n", t.Sequence, t.Name, durationLabel(t.DurationDays))
			return nil
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	return cmd
}()

func durationLabel(days *int) string {
	if days == nil {
		return "not estimated"
	}
	return fmt.Sprintf("%d days", *days)
}

func dateLabel(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02")
}

func timeLabel(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02 15:04")
}

func init() {
	taskCmd.AddCommand(taskShowCmd, taskStartCmd, taskCompleteCmd, taskApproveCmd,
		taskRejectCmd, taskProblemCmd, taskResolveCmd, taskForceCmd, taskDurationCmd)
	rootCmd.AddCommand(taskCmd)
}
