package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/welfare-intel/welfare"
)

func snapshot(id string) *welfare.Snapshot {
	return &welfare.Snapshot{
		ID:        id,
		Companies: []welfare.Company{{ID: "litalico", Name: "LITALICO", Category: welfare.CategoryDirect, PriorityRank: "S", ThreatLevel: 5}},
	}
}

func TestMemory_EmptyUntilReplaced(t *testing.T) {
	m := NewMemory()

	_, err := m.Current()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = m.Report()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Empty(t, m.Status().SnapshotID)
}

func TestMemory_Replace(t *testing.T) {
	// GIVEN: A reader holding the first catalog
	// WHEN: A second snapshot is published
	// THEN: New readers see it; the old catalog is unchanged

	m := NewMemory()
	report := m.Replace(snapshot("one"))
	assert.True(t, report.Valid)

	held, err := m.Current()
	require.NoError(t, err)

	m.Replace(snapshot("two"))
	cur, err := m.Current()
	require.NoError(t, err)

	assert.Equal(t, "two", cur.ID())
	assert.Equal(t, "one", held.ID())
	assert.Equal(t, 2, m.Status().Versions)
}

func TestMemory_ConcurrentReadersAndWriters(t *testing.T) {
	m := NewMemory()
	m.Replace(snapshot("seed"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Replace(snapshot(fmt.Sprintf("s%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			c, err := m.Current()
			if assert.NoError(t, err) {
				_, err := c.Company("litalico")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 9, m.Status().Versions)
}
