package core

import (
	"github.com/valter-silva-au/planboard/pkg/models"
)

// Directory is the read-only registry of users and roles. The engine never
// consults it; callers use it to resolve identities into role sets and to
// apply the permission conventions before invoking engine operations.
type Directory struct {
	users        []models.User
	roles        []models.Role
	leaderRoleID string
}

// NewDirectory builds a directory over the loaded users and roles.
func NewDirectory(users []models.User, roles []models.Role, leaderRoleID string) *Directory {
	return &Directory{users: users, roles: roles, leaderRoleID: leaderRoleID}
}

// Users returns all users in file order.
func (d *Directory) Users() []models.User { return d.users }

// UserByID returns the user with the given ID, or false.
func (d *Directory) UserByID(id string) (*models.User, bool) {
	for i := range d.users {
		if d.users[i].ID == id {
			return &d.users[i], true
		}
	}
	return nil, false
}

// RoleByID returns the role with the given ID, or false.
func (d *Directory) RoleByID(id string) (*models.Role, bool) {
	for i := range d.roles {
		if d.roles[i].ID == id {
			return &d.roles[i], true
		}
	}
	return nil, false
}

// UsersByRole returns all users holding the given role, in file order.
func (d *Directory) UsersByRole(roleID string) []models.User {
	var out []models.User
	for _, u := range d.users {
		if u.HasRole(roleID) {
			out = append(out, u)
		}
	}
	return out
}

// RoleNames returns the display names of the user's roles, skipping
// unresolvable role IDs.
func (d *Directory) RoleNames(u *models.User) []string {
	var out []string
	for _, id := range u.RoleIDs {
		if r, ok := d.RoleByID(id); ok {
			out = append(out, r.Name)
		}
	}
	return out
}

// IsLeader reports whether the user holds the project leader role.
func (d *Directory) IsLeader(u *models.User) bool {
	return u.HasRole(d.leaderRoleID)
}

// Leader returns the first user holding the leader role, or false.
func (d *Directory) Leader() (*models.User, bool) {
	for i := range d.users {
		if d.users[i].HasRole(d.leaderRoleID) {
			return &d.users[i], true
		}
	}
	return nil, false
}

// CanEditDuration reports whether the user may edit the task's estimated
// duration: the leader or a responsible-role holder, while the task is not
// done.
func (d *Directory) CanEditDuration(u *models.User, t *models.Task) bool {
	if t.Status == models.StatusDone {
		return false
	}
	return d.IsLeader(u) || u.HasRole(t.RoleID)
}
