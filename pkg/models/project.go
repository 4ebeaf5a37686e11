package models

import "time"

// Project holds the static metadata of the single tracked project.
type Project struct {
	ID     string
	Name   string
	Status string
	Start  time.Time
}

// ProjectHeader is the load-time shape of the project metadata. Start is an
// ISO date (YYYY-MM-DD) parsed by the loader.
type ProjectHeader struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Status string `yaml:"status,omitempty" json:"status,omitempty"`
	Start  string `yaml:"start" json:"start"`
}

// TaskDefinition is the load-time shape of a task as it appears in the
// project definition file. Prerequisites reference other tasks by sequence
// number; the loader resolves them to task IDs.
type TaskDefinition struct {
	Sequence      int    `yaml:"sequence" json:"sequence"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Phase         string `yaml:"phase,omitempty" json:"phase,omitempty"`
	RoleID        string `yaml:"role" json:"role"`
	Prerequisites []int  `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	DurationDays  *int   `yaml:"duration_days,omitempty" json:"duration_days,omitempty"`
}

// ProjectFile is the top-level structure of the project definition file.
type ProjectFile struct {
	Project ProjectHeader    `yaml:"project" json:"project"`
	Tasks   []TaskDefinition `yaml:"tasks" json:"tasks"`
}

// UsersFile is the top-level structure of the users/roles definition file.
type UsersFile struct {
	Roles []Role `yaml:"roles" json:"roles"`
	Users []User `yaml:"users" json:"users"`
}
