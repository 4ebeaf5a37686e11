package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/planboard/pkg/models"
)

var (
	problemActionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	approvalActionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	startActionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

func actionPrefix(a models.ActionType) string {
	switch a {
	case models.ActionResolveProblem:
		return problemActionStyle.Render("problem ")
	case models.ActionApproveTask:
		return approvalActionStyle.Render("approve ")
	case models.ActionStartTask:
		return startActionStyle.Render("start   ")
	default:
		return string(a)
	}
}

var actionsCmd = func() *cobra.Command {
	var asUser string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the pending actions for a user, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}

			actions := Engine.PendingActions(actor.RoleIDs)
			if len(actions) == 0 {
				fmt.Printf("No actions required from %s.\n", actor.Name)
				return nil
			}

			fmt.Printf("Actions required from %s (%d):\n", actor.Name, len(actions))
			for _, a := range actions {
				pulse := ""
				if a.Type == models.ActionStartTask && Engine.Store().ConsumeReadyPulse(a.Task.ID) {
					pulse = " " + pulseStyle.Render("just became ready")
				}
				fmt.Printf("  %s %3d. %s%s\n", actionPrefix(a.Type), a.Task.Sequence, a.Task.Name, pulse)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	return cmd
}()

func init() {
	rootCmd.AddCommand(actionsCmd)
}
