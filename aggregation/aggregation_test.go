package aggregation

import (
	"encoding/json"
	"testing"
	"time"

	"upkeep-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func standaloneIssue(t *testing.T, title, created string) models.EnrichedIssue {
	t.Helper()
	return models.EnrichedIssue{
		Issue: models.Issue{
			Title:     title,
			Category:  models.Road,
			Status:    models.Open,
			CreatedAt: day(t, created),
		},
	}
}

func groupedIssue(t *testing.T, title, created, groupID, groupTitle string) models.EnrichedIssue {
	t.Helper()
	issue := standaloneIssue(t, title, created)
	issue.IsMerged = true
	issue.MergedGroupID = groupID
	issue.MergedGroupTitle = groupTitle
	return issue
}

func TestAggregateStandaloneOrdering(t *testing.T) {
	// Scenario: three unmerged issues come back newest first regardless of
	// input order.
	input := []models.EnrichedIssue{
		standaloneIssue(t, "first", "2024-01-01"),
		standaloneIssue(t, "second", "2024-01-05"),
		standaloneIssue(t, "third", "2024-01-03"),
	}

	items := Aggregate(input)

	require.Len(t, items, 3)
	assert.Equal(t, "second", items[0].Issue.Title)
	assert.Equal(t, "third", items[1].Issue.Title)
	assert.Equal(t, "first", items[2].Issue.Title)
	for _, item := range items {
		assert.Equal(t, TypeIssue, item.Type)
	}
}

func TestAggregateGroupsAndSorts(t *testing.T) {
	// Two issues share group g1 (dates 02-01 and 02-10), one standalone is
	// dated 02-05. The group sorts on its earliest member, so the standalone
	// comes first.
	input := []models.EnrichedIssue{
		groupedIssue(t, "pothole a", "2024-02-01", "g1", "Pothole cluster"),
		groupedIssue(t, "pothole b", "2024-02-10", "g1", "Pothole cluster"),
		standaloneIssue(t, "lamp out", "2024-02-05"),
	}

	items := Aggregate(input)

	require.Len(t, items, 2)

	assert.Equal(t, TypeIssue, items[0].Type)
	assert.Equal(t, "lamp out", items[0].Issue.Title)

	require.Equal(t, TypeMergedGroup, items[1].Type)
	group := items[1].Group
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "Pothole cluster", group.Title)
	assert.Len(t, group.Issues, 2)
	assert.Equal(t, day(t, "2024-02-01"), group.CreatedAt)
}

func TestAggregateMalformedTagFallsThrough(t *testing.T) {
	tests := []struct {
		name  string
		issue models.EnrichedIssue
	}{
		{
			name: "merged without group id",
			issue: func() models.EnrichedIssue {
				i := standaloneIssue(t, "no id", "2024-03-01")
				i.IsMerged = true
				i.MergedGroupTitle = "Orphan"
				return i
			}(),
		},
		{
			name: "merged without group title",
			issue: func() models.EnrichedIssue {
				i := standaloneIssue(t, "no title", "2024-03-01")
				i.IsMerged = true
				i.MergedGroupID = "g9"
				return i
			}(),
		},
		{
			name: "group fields without merged flag",
			issue: func() models.EnrichedIssue {
				i := standaloneIssue(t, "no flag", "2024-03-01")
				i.MergedGroupID = "g9"
				i.MergedGroupTitle = "Orphan"
				return i
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Aggregate([]models.EnrichedIssue{tt.issue})
			require.Len(t, items, 1)
			assert.Equal(t, TypeIssue, items[0].Type)
			assert.Equal(t, tt.issue.Title, items[0].Issue.Title)
		})
	}
}

func TestAggregateCoverage(t *testing.T) {
	// Every input issue appears in exactly one output item.
	input := []models.EnrichedIssue{
		groupedIssue(t, "a", "2024-04-01", "g1", "Group one"),
		groupedIssue(t, "b", "2024-04-02", "g1", "Group one"),
		groupedIssue(t, "c", "2024-04-03", "g2", "Group two"),
		standaloneIssue(t, "d", "2024-04-04"),
		standaloneIssue(t, "e", "2024-04-05"),
	}

	items := Aggregate(input)

	total := 0
	seen := make(map[string]int)
	for _, item := range items {
		if item.Type == TypeMergedGroup {
			total += len(item.Group.Issues)
			for _, member := range item.Group.Issues {
				seen[member.Title]++
			}
		} else {
			total++
			seen[item.Issue.Title]++
		}
	}

	assert.Equal(t, len(input), total)
	for _, issue := range input {
		assert.Equal(t, 1, seen[issue.Title], "issue %q should appear exactly once", issue.Title)
	}
	// distinct groups + standalones
	assert.Len(t, items, 4)
}

func TestAggregateDistinctGroupsStayDistinct(t *testing.T) {
	input := []models.EnrichedIssue{
		groupedIssue(t, "a", "2024-05-01", "g1", "One"),
		groupedIssue(t, "b", "2024-05-02", "g2", "Two"),
		groupedIssue(t, "c", "2024-05-03", "g1", "One"),
	}

	items := Aggregate(input)

	require.Len(t, items, 2)
	byID := make(map[string]*MergedGroup)
	for _, item := range items {
		require.Equal(t, TypeMergedGroup, item.Type)
		byID[item.Group.ID] = item.Group
	}
	require.Contains(t, byID, "g1")
	require.Contains(t, byID, "g2")
	assert.Len(t, byID["g1"].Issues, 2)
	assert.Len(t, byID["g2"].Issues, 1)
}

func TestAggregateOrderingProperty(t *testing.T) {
	input := []models.EnrichedIssue{
		standaloneIssue(t, "a", "2023-11-02"),
		groupedIssue(t, "b", "2023-12-25", "g1", "Cluster"),
		standaloneIssue(t, "c", "2024-06-30"),
		groupedIssue(t, "d", "2023-10-01", "g1", "Cluster"),
		standaloneIssue(t, "e", "2024-01-15"),
		groupedIssue(t, "f", "2024-03-03", "g2", "Other cluster"),
	}

	items := Aggregate(input)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i-1].CreatedAt().Before(items[i].CreatedAt()),
			"items must be sorted descending by effective date")
	}
}

func TestAggregateIdempotent(t *testing.T) {
	input := []models.EnrichedIssue{
		groupedIssue(t, "a", "2024-07-01", "g1", "Cluster"),
		groupedIssue(t, "b", "2024-07-05", "g1", "Cluster"),
		standaloneIssue(t, "c", "2024-07-03"),
	}

	first := Aggregate(input)

	// Flatten the output back to issues and aggregate again.
	var flattened []models.EnrichedIssue
	for _, item := range first {
		if item.Type == TypeMergedGroup {
			flattened = append(flattened, item.Group.Issues...)
		} else {
			flattened = append(flattened, *item.Issue)
		}
	}

	second := Aggregate(flattened)

	require.Len(t, second, len(first))
	groupsOf := func(items []DisplayItem) map[string][]string {
		out := make(map[string][]string)
		for _, item := range items {
			if item.Type != TypeMergedGroup {
				continue
			}
			for _, member := range item.Group.Issues {
				out[item.Group.ID] = append(out[item.Group.ID], member.Title)
			}
		}
		return out
	}
	assert.Equal(t, groupsOf(first), groupsOf(second))
}

func TestAggregateEmptyInput(t *testing.T) {
	items := Aggregate(nil)
	assert.Empty(t, items)
}

func TestEffectiveDateEmptyGroupDefaultsToNow(t *testing.T) {
	before := time.Now()
	got := effectiveDate(nil)
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestDisplayItemJSONShape(t *testing.T) {
	items := Aggregate([]models.EnrichedIssue{
		groupedIssue(t, "a", "2024-08-01", "g1", "Cluster"),
		standaloneIssue(t, "b", "2024-08-02"),
	})
	require.Len(t, items, 2)

	raw, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded []struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "issue", decoded[0].Type)
	assert.Equal(t, "merged_group", decoded[1].Type)
	assert.NotEmpty(t, decoded[0].Data)
	assert.NotEmpty(t, decoded[1].Data)
}
