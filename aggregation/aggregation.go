// Package aggregation turns a flat, enriched issue list into the
// display-ready sequence consumed by the list screens: issues that share a
// merged group collapse into a single group entry, everything is sorted
// newest first.
package aggregation

import (
	"encoding/json"
	"sort"
	"time"

	"upkeep-be/models"
)

// ItemType discriminates the two kinds of display items.
type ItemType string

const (
	TypeIssue       ItemType = "issue"
	TypeMergedGroup ItemType = "merged_group"
)

// MergedGroup is the display form of a merged cluster. CreatedAt is the
// effective date: the earliest CreatedAt among the member issues.
type MergedGroup struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Issues    []models.EnrichedIssue `json:"issues"`
	CreatedAt time.Time              `json:"createdAt"`
}

// DisplayItem is either a standalone issue or a merged group. Exactly one of
// Issue and Group is set, matching Type.
type DisplayItem struct {
	Type  ItemType
	Issue *models.EnrichedIssue
	Group *MergedGroup
}

// CreatedAt returns the date the item sorts on.
func (d DisplayItem) CreatedAt() time.Time {
	if d.Type == TypeMergedGroup {
		return d.Group.CreatedAt
	}
	return d.Issue.CreatedAt
}

// MarshalJSON renders the item as {"type": ..., "data": ...}.
func (d DisplayItem) MarshalJSON() ([]byte, error) {
	var data interface{}
	if d.Type == TypeMergedGroup {
		data = d.Group
	} else {
		data = d.Issue
	}
	return json.Marshal(struct {
		Type ItemType    `json:"type"`
		Data interface{} `json:"data"`
	}{Type: d.Type, Data: data})
}

// Aggregate collapses issues carrying a complete merge tag into group
// entries and returns groups and standalone issues as one sequence, sorted
// descending by effective date. Every input issue appears in exactly one
// output item. An issue with IsMerged set but a missing group id or title
// falls through to standalone. The function never fails.
func Aggregate(issues []models.EnrichedIssue) []DisplayItem {
	groups := make(map[string]*MergedGroup)
	var groupOrder []string
	var standalone []models.EnrichedIssue

	for _, issue := range issues {
		if issue.IsMerged && issue.MergedGroupID != "" && issue.MergedGroupTitle != "" {
			group, ok := groups[issue.MergedGroupID]
			if !ok {
				group = &MergedGroup{
					ID:        issue.MergedGroupID,
					Title:     issue.MergedGroupTitle,
					CreatedAt: issue.CreatedAt,
				}
				groups[issue.MergedGroupID] = group
				groupOrder = append(groupOrder, issue.MergedGroupID)
			}
			group.Issues = append(group.Issues, issue)
		} else {
			standalone = append(standalone, issue)
		}
	}

	for _, group := range groups {
		group.CreatedAt = effectiveDate(group.Issues)
	}

	items := make([]DisplayItem, 0, len(groups)+len(standalone))
	for _, id := range groupOrder {
		items = append(items, DisplayItem{Type: TypeMergedGroup, Group: groups[id]})
	}
	for i := range standalone {
		items = append(items, DisplayItem{Type: TypeIssue, Issue: &standalone[i]})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt().After(items[j].CreatedAt())
	})

	return items
}

// effectiveDate is the minimum CreatedAt over the members. An empty member
// list should not occur; it defaults to now.
func effectiveDate(issues []models.EnrichedIssue) time.Time {
	if len(issues) == 0 {
		return time.Now()
	}
	earliest := issues[0].CreatedAt
	for _, issue := range issues[1:] {
		if issue.CreatedAt.Before(earliest) {
			earliest = issue.CreatedAt
		}
	}
	return earliest
}
