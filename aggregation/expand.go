package aggregation

import "upkeep-be/models"

// ExpandedGroups tracks which merged groups are currently expanded. The zero
// value of NewExpandedGroups is the collapsed-everything state a screen
// starts in.
type ExpandedGroups map[string]bool

func NewExpandedGroups() ExpandedGroups {
	return make(ExpandedGroups)
}

// Toggle flips the expanded state of one group and leaves every other group
// untouched.
func (e ExpandedGroups) Toggle(groupID string) {
	if e[groupID] {
		delete(e, groupID)
	} else {
		e[groupID] = true
	}
}

func (e ExpandedGroups) Expanded(groupID string) bool {
	return e[groupID]
}

// Preview returns the representative member shown while a group is
// collapsed: the first issue in the group's member list, in the order the
// aggregation saw them. Nil for an empty group.
func Preview(group *MergedGroup) *models.EnrichedIssue {
	if group == nil || len(group.Issues) == 0 {
		return nil
	}
	return &group.Issues[0]
}
