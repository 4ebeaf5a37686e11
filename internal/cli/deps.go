package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/planboard/pkg/models"
)

var depsCmd = func() *cobra.Command {
	var asUser string
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show what a user's tasks are waiting for, and who is waiting on them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(asUser)
			if err != nil {
				return err
			}
			store := Engine.Store()

			fmt.Printf("Waiting for (tasks blocking %s):\n", actor.Name)
			found := false
			for _, t := range store.All() {
				if !actor.HasRole(t.RoleID) {
					continue
				}
				if t.Status != models.StatusNotStarted && t.Status != models.StatusWaiting {
					continue
				}
				var unmet []*models.Task
				for _, id := range t.Prerequisites {
					pre, ok := store.Get(id)
					if ok && pre.Status != models.StatusDone {
						unmet = append(unmet, pre)
					}
				}
				if len(unmet) == 0 {
					continue
				}
				found = true
				fmt.Printf("  %d. %s waits on:\n", t.Sequence, t.Name)
				for _, pre := range unmet {
					fmt.Printf("    - %d. %s (%s)\n", pre.Sequence, pre.Name, pre.Status)
				}
			}
			if !found {
				fmt.Println("  (no unmet prerequisites)")
			}

			fmt.Printf("\nWaiting on %s (tasks blocked behind theirs):\n", actor.Name)
			found = false
			for _, t := range store.All() {
				if !actor.HasRole(t.RoleID) || t.Status == models.StatusDone {
					continue
				}
				var blocked []*models.Task
				for _, succ := range store.Successors(t.ID) {
					if succ.Status == models.StatusNotStarted || succ.Status == models.StatusWaiting {
						blocked = append(blocked, succ)
					}
				}
				if len(blocked) == 0 {
					continue
				}
				found = true
				fmt.Printf("  Because %d. %s is %s:\n", t.Sequence, t.Name, t.Status)
				for _, succ := range blocked {
					roleName := succ.RoleID
					if r, ok := Directory.RoleByID(succ.RoleID); ok {
						roleName = r.Name
					}
					fmt.Printf("    - %d. %s (%s) waits\n", succ.Sequence, succ.Name, roleName)
				}
			}
			if !found {
				fmt.Println("  (nobody is waiting)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to act as")
	return cmd
}()

func init() {
	rootCmd.AddCommand(depsCmd)
}
