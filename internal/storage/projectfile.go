// Package storage loads the read-only project and user definition files
// that seed the scheduling engine. Files may be YAML or JSON; JSON files may
// contain //-prefixed comment lines, which are stripped before decoding.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valter-silva-au/planboard/pkg/models"
	"gopkg.in/yaml.v3"
)

// TaskIDFromSequence derives the stable task identifier from a sequence
// number, e.g. 7 -> TASK-007.
func TaskIDFromSequence(seq int) string {
	return fmt.Sprintf("TASK-%03d", seq)
}

// stripJSONComments removes lines whose first non-blank characters are //,
// so definition files can carry inline commentary.
func stripJSONComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}

// decodeFile unmarshals a YAML or JSON definition file into out based on
// the file extension.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(stripJSONComments(data), out); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("parsing %s: unsupported extension %q", path, ext)
	}
	return nil
}

// LoadProject reads a project definition file and converts it into the
// engine's project metadata and task records. Prerequisite sequence numbers
// are resolved to task IDs; schedule and status fields start zeroed, to be
// derived by the engine.
func LoadProject(path string) (models.Project, []*models.Task, error) {
	var file models.ProjectFile
	if err := decodeFile(path, &file); err != nil {
		return models.Project{}, nil, fmt.Errorf("loading project: %w", err)
	}

	start, err := time.Parse("2006-01-02", file.Project.Start)
	if err != nil {
		return models.Project{}, nil, fmt.Errorf("loading project: invalid start date %q: %w", file.Project.Start, err)
	}

	project := models.Project{
		ID:     file.Project.ID,
		Name:   file.Project.Name,
		Status: file.Project.Status,
		Start:  start,
	}

	tasks := make([]*models.Task, 0, len(file.Tasks))
	for _, def := range file.Tasks {
		if def.Sequence <= 0 {
			return models.Project{}, nil, fmt.Errorf("loading project: task %q has invalid sequence %d", def.Name, def.Sequence)
		}
		if def.DurationDays != nil && *def.DurationDays < 0 {
			return models.Project{}, nil, fmt.Errorf("loading project: task %q has negative duration %d", def.Name, *def.DurationDays)
		}
		prereqs := make([]string, 0, len(def.Prerequisites))
		for _, seq := range def.Prerequisites {
			prereqs = append(prereqs, TaskIDFromSequence(seq))
		}
		tasks = append(tasks, &models.Task{
			ID:            TaskIDFromSequence(def.Sequence),
			Sequence:      def.Sequence,
			Name:          def.Name,
			Description:   def.Description,
			Phase:         def.Phase,
			RoleID:        def.RoleID,
			Prerequisites: prereqs,
			DurationDays:  def.DurationDays,
		})
	}
	return project, tasks, nil
}

// LoadUsers reads a users/roles definition file.
func LoadUsers(path string) ([]models.User, []models.Role, error) {
	var file models.UsersFile
	if err := decodeFile(path, &file); err != nil {
		return nil, nil, fmt.Errorf("loading users: %w", err)
	}
	return file.Users, file.Roles, nil
}
