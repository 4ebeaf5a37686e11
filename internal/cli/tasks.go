package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/planboard/pkg/models"
)

var (
	statusStyles = map[models.TaskStatus]lipgloss.Style{
		models.StatusNotStarted:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		models.StatusWaiting:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		models.StatusInProgress:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		models.StatusPendingApproval: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		models.StatusProblem:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.StatusDone:            lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}

	readyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	pulseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
)

func statusLabel(t *models.Task) string {
	style, ok := statusStyles[t.Status]
	if !ok {
		return string(t.Status)
	}
	return style.Render(string(t.Status))
}

// statusUrgency orders the my-tasks listing: problems first, approvals
// next, then active, ready, waiting, and finally done work.
var statusUrgency = map[models.TaskStatus]int{
	models.StatusProblem:         1,
	models.StatusPendingApproval: 2,
	models.StatusInProgress:      3,
	models.StatusNotStarted:      4,
	models.StatusWaiting:         5,
	models.StatusDone:            6,
}

var tasksCmd = func() *cobra.Command {
	var phase, status, asUser string
	var mine bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List project tasks with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !models.ValidStatuses[models.TaskStatus(status)] {
				return fmt.Errorf("invalid status %q", status)
			}

			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}
			isLeader := Directory.IsLeader(actor)

			var tasks []*models.Task
			for _, t := range Engine.Store().All() {
				if phase != "" && t.Phase != phase {
					continue
				}
				if status != "" && t.Status != models.TaskStatus(status) {
					continue
				}
				if mine {
					relevant := actor.HasRole(t.RoleID) ||
						(isLeader && t.Status == models.StatusPendingApproval)
					if !relevant {
						continue
					}
				}
				tasks = append(tasks, t)
			}

			if mine {
				sortMyTasks(tasks)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks match.")
				return nil
			}
			for _, t := range tasks {
				printTaskLine(t, actor)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "filter by phase label")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().BoolVar(&mine, "mine", false, "only tasks relevant to the acting user")
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	return cmd
}()

// sortMyTasks orders by status urgency, then computed start (unscheduled
// last), then sequence.
func sortMyTasks(tasks []*models.Task) {
	farFuture := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		ua, ub := statusUrgency[a.Status], statusUrgency[b.Status]
		if ua != ub {
			return ua < ub
		}
		sa, sb := farFuture, farFuture
		if a.ComputedStart != nil {
			sa = *a.ComputedStart
		}
		if b.ComputedStart != nil {
			sb = *b.ComputedStart
		}
		if !sa.Equal(sb) {
			return sa.Before(sb)
		}
		return a.Sequence < b.Sequence
	})
}

func printTaskLine(t *models.Task, actor *models.User) {
	roleName := t.RoleID
	if r, ok := Directory.RoleByID(t.RoleID); ok {
		roleName = r.Name
	}

	cue := ""
	if t.Status == models.StatusNotStarted && actor.HasRole(t.RoleID) &&
		Engine.Resolver().PrerequisitesMet(t) {
		cue = " " + readyStyle.Render("ready")
		if Engine.Store().ConsumeReadyPulse(t.ID) {
			cue = " " + pulseStyle.Render("just became ready")
		}
	}
	if t.Status == models.StatusProblem {
		cue = fmt.Sprintf(" (%s)", t.Problem)
	}

	fmt.Printf("%3d. %-38s %-14s %s  %s -> %s  [%s]%s\n",
		t.Sequence, t.Name, roleName, statusLabel(t),
		dateLabel(t.ComputedStart), dateLabel(t.ComputedEnd),
		durationLabel(t.DurationDays), cue)
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
