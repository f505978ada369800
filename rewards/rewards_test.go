package rewards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/welfare-intel/rewards"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func catalog() []rewards.ServiceEntry {
	return []rewards.ServiceEntry{
		{
			ServiceType: "放課後等デイサービス",
			ServiceSlug: "houkago-day",
			Category:    rewards.CategoryChild,
			Revisions: []rewards.Revision{
				{Year: 2012, Title: "放課後等デイサービス創設", Type: rewards.TypeCreation},
				{Year: 2021, Title: "令和3年度改定", Type: rewards.TypeRevision},
				{Year: 2024, Title: "令和6年度改定", Type: rewards.TypeRevision},
			},
		},
		{
			ServiceType: "就労移行支援",
			ServiceSlug: "shuro-ikou",
			Category:    rewards.CategoryEmployment,
			Revisions: []rewards.Revision{
				{Year: 2006, Title: "障害者自立支援法で創設", Type: rewards.TypeCreation},
				{Year: 2024, Title: "令和6年度改定", Type: rewards.TypeRevision},
			},
		},
		{
			ServiceType: "就労選択支援",
			ServiceSlug: "shuro-sentaku",
			Category:    rewards.CategoryEmployment,
			Revisions: []rewards.Revision{
				{Year: 2025, Title: "就労選択支援創設", Type: rewards.TypeCreation},
			},
		},
	}
}

// =============================================================================
// TIMELINE TESTS
// =============================================================================

func TestGroupByYear_NewestFirstWithCounts(t *testing.T) {
	// GIVEN: Three services with overlapping revision years
	// WHEN: Revisions are grouped across services
	// THEN: Years descend and 2024 counts two revisions from two services

	groups := rewards.GroupByYear(catalog())

	years := make([]int, len(groups))
	for i, g := range groups {
		years[i] = g.Year
	}
	assert.Equal(t, []int{2025, 2024, 2021, 2012, 2006}, years)

	y2024 := groups[1]
	assert.Equal(t, 2, y2024.Revisions)
	assert.Equal(t, 0, y2024.Creations)
	require.Len(t, y2024.Entries, 2)
	assert.Equal(t, "houkago-day", y2024.Entries[0].ServiceSlug, "catalog order within a year")
	assert.Equal(t, "shuro-ikou", y2024.Entries[1].ServiceSlug)

	assert.Equal(t, 1, groups[0].Creations)
}

func TestTimeline_CategoryFilter(t *testing.T) {
	groups := rewards.Timeline(catalog(), rewards.CategoryEmployment)

	require.Len(t, groups, 3)
	for _, g := range groups {
		for _, e := range g.Entries {
			assert.Equal(t, rewards.CategoryEmployment, e.Category)
		}
	}

	assert.Empty(t, rewards.Timeline(catalog(), rewards.CategoryVisit))
	assert.Len(t, rewards.Timeline(catalog(), rewards.CategoryAll), 5)
}

func TestParseCategory(t *testing.T) {
	c, ok := rewards.ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, rewards.CategoryAll, c)

	c, ok = rewards.ParseCategory("residential")
	assert.True(t, ok)
	assert.Equal(t, rewards.CategoryResidential, c)

	_, ok = rewards.ParseCategory("nursing")
	assert.False(t, ok)
}

func TestByYear_FirstWins(t *testing.T) {
	revs := []rewards.Revision{
		{Year: 2021, Title: "first"},
		{Year: 2021, Title: "second"},
	}
	assert.Equal(t, "first", rewards.ByYear(revs)[2021].Title)

	r, ok := rewards.Find(revs, 2021)
	assert.True(t, ok)
	assert.Equal(t, "first", r.Title)

	_, ok = rewards.Find(revs, 1999)
	assert.False(t, ok)
	assert.Equal(t, "新設", rewards.TypeCreation.Label())
}
