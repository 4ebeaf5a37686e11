package cli

import (
	"fmt"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// resolveActor turns the --as flag into a user from the directory. With no
// flag the project leader is assumed, falling back to the first user.
func resolveActor(asUser string) (*models.User, error) {
	if Directory == nil {
		return nil, fmt.Errorf("user directory not initialized")
	}
	if asUser == "" {
		if leader, ok := Directory.Leader(); ok {
			return leader, nil
		}
		users := Directory.Users()
		if len(users) == 0 {
			return nil, fmt.Errorf("no users defined")
		}
		return &users[0], nil
	}
	u, ok := Directory.UserByID(asUser)
	if !ok {
		return nil, fmt.Errorf("user %s not found", asUser)
	}
	return u, nil
}

// notify records an actor-attributed notification, if the notification
// center is wired.
func notify(body, userID, taskID string) {
	if Notices != nil {
		Notices.Add(body, userID, taskID)
	}
}
