package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// TopoSort orders tasks so that every task appears after all of its
// prerequisites. It returns an error naming the tasks involved if the
// prerequisite graph contains a cycle or an unresolvable reference, so a
// malformed project is rejected at load time instead of breaking the
// recursive cascade later.
func TopoSort(tasks []*models.Task) ([]*models.Task, error) {
	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	indegree := make(map[string]int, len(tasks))
	successors := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		indegree[t.ID] += 0
		for _, pre := range t.Prerequisites {
			if pre == t.ID {
				return nil, fmt.Errorf("validating prerequisite graph: task %s references itself", t.ID)
			}
			if _, ok := byID[pre]; !ok {
				// Dangling references fail closed in the resolver; they do
				// not invalidate the graph.
				continue
			}
			indegree[t.ID]++
			successors[pre] = append(successors[pre], t.ID)
		}
	}

	// Kahn's algorithm, seeded in sequence order for a stable result.
	ordered := make([]*models.Task, 0, len(tasks))
	var queue []*models.Task
	for _, t := range tasks {
		if indegree[t.ID] == 0 {
			queue = append(queue, t)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Sequence < queue[j].Sequence })

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		ordered = append(ordered, t)
		for _, succID := range successors[t.ID] {
			indegree[succID]--
			if indegree[succID] == 0 {
				queue = append(queue, byID[succID])
			}
		}
	}

	if len(ordered) != len(tasks) {
		var cyclic []string
		for _, t := range tasks {
			if indegree[t.ID] > 0 {
				cyclic = append(cyclic, t.ID)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("validating prerequisite graph: cycle involving %s", strings.Join(cyclic, ", "))
	}
	return ordered, nil
}
