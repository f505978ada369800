// Package memory holds the dataset currently being served.
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/warp/welfare-intel/welfare"
)

// ErrEmpty is returned before the first snapshot has been published.
var ErrEmpty = errors.New("no dataset loaded")

// =============================================================================
// MEMORY STORE - current Catalog, swapped atomically on reload
// =============================================================================

// Memory holds the current Catalog. Published catalogs are never mutated;
// Replace swaps the pointer.
type Memory struct {
	mu       sync.RWMutex
	current  *welfare.Catalog
	report   *welfare.Report
	swapped  time.Time
	versions int
}

func NewMemory() *Memory {
	return &Memory{}
}

// Replace publishes snap as the current dataset and returns its
// consistency report. The previous catalog stays valid for readers that
// already hold it.
func (m *Memory) Replace(snap *welfare.Snapshot) *welfare.Report {
	catalog := welfare.NewCatalog(snap)
	report := welfare.Validate(snap)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = catalog
	m.report = report
	m.swapped = time.Now()
	m.versions++
	return report
}

// Current returns the catalog being served.
func (m *Memory) Current() (*welfare.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrEmpty
	}
	return m.current, nil
}

// Report returns the consistency report of the current catalog.
func (m *Memory) Report() (*welfare.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.report == nil {
		return nil, ErrEmpty
	}
	return m.report, nil
}

// Status describes the held dataset.
type Status struct {
	SnapshotID string    `json:"snapshot_id"`
	SwappedAt  time.Time `json:"swapped_at"`
	Versions   int       `json:"versions"`
}

// Status returns the id of the current snapshot and how many snapshots
// have been published.
func (m *Memory) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Status{SwappedAt: m.swapped, Versions: m.versions}
	if m.current != nil {
		st.SnapshotID = m.current.ID()
	}
	return st
}
