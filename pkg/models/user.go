package models

// Role is a project role that one or more users can hold. All holders of a
// task's responsible role are jointly responsible for that task.
type Role struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// User is a simulated project participant identified by the set of roles it
// holds. Users are external collaborators of the engine: the engine never
// checks identities, only the caller-supplied role sets.
type User struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Company string   `yaml:"company,omitempty" json:"company,omitempty"`
	Email   string   `yaml:"email,omitempty" json:"email,omitempty"`
	Phone   string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	RoleIDs []string `yaml:"roles" json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(roleID string) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
