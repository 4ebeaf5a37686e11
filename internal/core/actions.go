package core

import (
	"sort"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// actionRank orders pending actions: problems first, then approvals, then
// tasks ready to start.
var actionRank = map[models.ActionType]int{
	models.ActionResolveProblem: 1,
	models.ActionApproveTask:    2,
	models.ActionStartTask:      3,
}

// PendingActions derives the prioritized list of tasks requiring action
// from an actor holding the given roles, right now. Holders of a task's
// responsible role see start actions for ready tasks; holders of the leader
// role see approvals and problem resolutions. Ties keep task sequence order.
func (e *Engine) PendingActions(roleIDs []string) []models.PendingAction {
	roles := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		roles[id] = true
	}
	isLeader := roles[e.leaderRoleID]

	var actions []models.PendingAction
	for _, t := range e.store.All() {
		if roles[t.RoleID] && t.Status == models.StatusNotStarted && e.resolver.PrerequisitesMet(t) {
			actions = append(actions, models.PendingAction{Type: models.ActionStartTask, Task: t})
		}
		if isLeader && t.Status == models.StatusPendingApproval {
			actions = append(actions, models.PendingAction{Type: models.ActionApproveTask, Task: t})
		}
		if isLeader && t.Status == models.StatusProblem {
			actions = append(actions, models.PendingAction{Type: models.ActionResolveProblem, Task: t})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actionRank[actions[i].Type] < actionRank[actions[j].Type]
	})
	return actions
}
