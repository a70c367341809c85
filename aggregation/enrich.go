package aggregation

import "upkeep-be/models"

// EnrichIssue applies a merge tag to an issue. group is the merged group the
// issue belongs to, or nil when no relation exists; memberCount is the live
// membership size of that group, the current issue included. Callers that
// fail to resolve the count pass 0 rather than propagating the error.
func EnrichIssue(issue models.Issue, group *models.MergedIssue, memberCount int64) models.EnrichedIssue {
	enriched := models.EnrichedIssue{Issue: issue}
	if group == nil {
		return enriched
	}
	enriched.IsMerged = true
	enriched.MergedGroupID = group.ID.Hex()
	enriched.MergedGroupTitle = group.Title
	enriched.MergedCount = memberCount
	return enriched
}
