package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List project participants and their roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users := Directory.Users()
		if len(users) == 0 {
			fmt.Println("No users defined.")
			return nil
		}
		for i := range users {
			u := &users[i]
			roles := strings.Join(Directory.RoleNames(u), ", ")
			leader := ""
			if Directory.IsLeader(u) {
				leader = " (project leader)"
			}
			fmt.Printf("%-12s %-22s %s%s\n", u.ID, u.Name, roles, leader)
			if u.Company != "" || u.Email != "" {
				fmt.Printf("             %s  %s  %s\n", u.Company, u.Email, u.Phone)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
