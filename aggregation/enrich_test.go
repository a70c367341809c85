package aggregation

import (
	"testing"
	"time"

	"upkeep-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichIssueNoRelation(t *testing.T) {
	issue := models.Issue{Title: "standalone", CreatedAt: time.Now()}

	enriched := EnrichIssue(issue, nil, 0)

	assert.False(t, enriched.IsMerged)
	assert.Empty(t, enriched.MergedGroupID)
	assert.Empty(t, enriched.MergedGroupTitle)
	assert.Zero(t, enriched.MergedCount)
	assert.Equal(t, "standalone", enriched.Title)
}

func TestEnrichIssueWithGroup(t *testing.T) {
	issue := models.Issue{Title: "member"}
	group := &models.MergedIssue{
		Title:  "Pothole cluster",
		Status: models.GroupActive,
	}

	// A three-member group reports 3 on every member, the member itself
	// included.
	enriched := EnrichIssue(issue, group, 3)

	assert.True(t, enriched.IsMerged)
	assert.Equal(t, group.ID.Hex(), enriched.MergedGroupID)
	assert.Equal(t, "Pothole cluster", enriched.MergedGroupTitle)
	assert.Equal(t, int64(3), enriched.MergedCount)
}

func TestEnrichIssueCountFallback(t *testing.T) {
	// When the count lookup fails upstream the caller passes 0; the issue
	// still carries its merge tag.
	issue := models.Issue{Title: "member"}
	group := &models.MergedIssue{Title: "Cluster"}

	enriched := EnrichIssue(issue, group, 0)

	assert.True(t, enriched.IsMerged)
	assert.Zero(t, enriched.MergedCount)
}

func TestUnmergedIssuesReturnToStandalone(t *testing.T) {
	// After an unmerge the re-fetched rows carry no relation, so enrichment
	// tags nothing and aggregation yields only standalone items.
	titles := []string{"a", "b", "c"}

	var enriched []models.EnrichedIssue
	for _, title := range titles {
		enriched = append(enriched, EnrichIssue(models.Issue{Title: title, CreatedAt: time.Now()}, nil, 0))
	}

	items := Aggregate(enriched)

	require.Len(t, items, len(titles))
	for _, item := range items {
		assert.Equal(t, TypeIssue, item.Type)
	}
}

func TestEnrichedMembersGroupTogether(t *testing.T) {
	// Enrichment output feeds straight into Aggregate: members tagged with
	// the same group end up in one group entry.
	group := &models.MergedIssue{Title: "Cluster"}

	var enriched []models.EnrichedIssue
	for _, title := range []string{"a", "b", "c"} {
		enriched = append(enriched, EnrichIssue(models.Issue{Title: title, CreatedAt: time.Now()}, group, 3))
	}

	items := Aggregate(enriched)

	require.Len(t, items, 1)
	require.Equal(t, TypeMergedGroup, items[0].Type)
	assert.Len(t, items[0].Group.Issues, 3)
	for _, member := range items[0].Group.Issues {
		assert.Equal(t, int64(3), member.MergedCount)
	}
}
