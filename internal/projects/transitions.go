package projects

import "github.com/classwish/classwish-backend/pkg/enums"

// transitionRule describes who may move a project between two statuses
// and what the move requires.
type transitionRule struct {
	actors              []enums.Role
	ownerOnly           bool // a teacher actor must own the project
	requiresNote        bool
	requiresDeniedReset bool // caller must explicitly opt in to reviving a denied project
}

// transitionTable is the single authority for the review state machine.
// Any (from, to) pair missing here is an invalid transition.
var transitionTable = map[enums.ProjectStatus]map[enums.ProjectStatus]transitionRule{
	enums.ProjectStatusDraft: {
		enums.ProjectStatusPendingReview: {
			actors:    []enums.Role{enums.RoleTeacher, enums.RoleAdmin},
			ownerOnly: true,
		},
	},
	enums.ProjectStatusPendingReview: {
		enums.ProjectStatusApproved: {
			actors: []enums.Role{enums.RoleAdmin},
		},
		enums.ProjectStatusNeedsRevision: {
			actors:       []enums.Role{enums.RoleAdmin},
			requiresNote: true,
		},
		enums.ProjectStatusDenied: {
			actors:       []enums.Role{enums.RoleAdmin},
			requiresNote: true,
		},
	},
	enums.ProjectStatusNeedsRevision: {
		enums.ProjectStatusDraft: {
			actors:    []enums.Role{enums.RoleTeacher},
			ownerOnly: true,
		},
	},
	enums.ProjectStatusDenied: {
		enums.ProjectStatusDraft: {
			actors:              []enums.Role{enums.RoleTeacher},
			ownerOnly:           true,
			requiresDeniedReset: true,
		},
	},
	enums.ProjectStatusApproved: {
		enums.ProjectStatusFunded: {
			actors: []enums.Role{enums.RoleAdmin},
		},
	},
	enums.ProjectStatusFunded: {
		enums.ProjectStatusCompleted: {
			actors: []enums.Role{enums.RoleAdmin},
		},
	},
}

func ruleFor(from, to enums.ProjectStatus) (transitionRule, bool) {
	targets, ok := transitionTable[from]
	if !ok {
		return transitionRule{}, false
	}
	rule, ok := targets[to]
	return rule, ok
}

func (r transitionRule) allowsRole(role enums.Role) bool {
	for _, candidate := range r.actors {
		if candidate == role {
			return true
		}
	}
	return false
}
