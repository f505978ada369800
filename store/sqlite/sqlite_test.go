package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/welfare-intel/welfare"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot(id string) *welfare.Snapshot {
	return &welfare.Snapshot{
		ID:       id,
		Name:     "welfare-intel",
		Version:  "2025.06",
		Source:   "testdata",
		LoadedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Companies: []welfare.Company{
			{ID: "litalico", Name: "LITALICO", Category: welfare.CategoryDirect, ThreatLevel: 5},
			{ID: "welbe", Name: "ウェルビー", Category: welfare.CategoryDirect, ThreatLevel: 4},
		},
		Financials: []welfare.CompanyFinancials{{
			CompanyID: "litalico",
			FiscalYears: []welfare.FiscalYear{
				{Year: "2024/03", Revenue: decimal.RequireFromString("28512.5"), OperatingProfit: decimal.NewFromInt(3000)},
			},
		}},
		Market: &welfare.MarketOverview{
			FacilityCountsByType: []welfare.FacilityCountYear{{
				Year: 2023,
				Services: welfare.ServiceCounts{
					{Service: "放課後等デイサービス", Count: 21000},
					{Service: "児童発達支援", Count: 11000},
				},
			}},
		},
		Facilities: []welfare.FacilityAnalysis{
			{Slug: "houkago-day", ServiceType: "放課後等デイサービス"},
		},
	}
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestStore_SaveAndLoad(t *testing.T) {
	// GIVEN: A saved snapshot
	// WHEN: It is loaded back
	// THEN: Documents, order and decimals survive the round trip

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSnapshot("snap-1")))

	got, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "snap-1", got.ID)
	assert.Equal(t, "2025.06", got.Version)
	assert.True(t, got.LoadedAt.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	require.Len(t, got.Companies, 2)
	assert.Equal(t, "litalico", got.Companies[0].ID)
	assert.Equal(t, "welbe", got.Companies[1].ID)
	assert.Equal(t, "28512.5", got.Financials[0].FiscalYears[0].Revenue.String())

	require.NotNil(t, got.Market)
	assert.Equal(t, "放課後等デイサービス", got.Market.FacilityCountsByType[0].Services[0].Service)
	assert.Equal(t, "houkago-day", got.Facilities[0].Slug)

	assert.NotNil(t, got.Notes)
	assert.Empty(t, got.Notes)
}

func TestStore_LoadLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSnapshot("snap-1")))
	require.NoError(t, store.Save(ctx, testSnapshot("snap-2")))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-2", got.ID)

	old, err := store.LoadByID(ctx, "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "snap-1", old.ID)
}

func TestStore_Errors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = store.LoadByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, testSnapshot("snap-1")))
	err = store.Save(ctx, testSnapshot("snap-1"))
	assert.ErrorIs(t, err, ErrDuplicateSnapshot)
}

func TestStore_PruneAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, testSnapshot(id)))
	}

	n, err := store.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c", recs[0].ID)

	_, err = store.LoadByID(ctx, "a")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Reset(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
