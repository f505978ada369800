/*
Package sqlite provides compiled dataset snapshots backed by SQLite.

PURPOSE:
  The dataset directory is convenient for analysts but slow to parse on
  every start. build-db compiles a loaded Snapshot into one SQLite file;
  serve --db opens that file read-only. The database holds the documents
  as they were decoded, so a snapshot read back from SQLite produces the
  same derivations as the directory it was built from.

KEY TABLES:
  snapshots: one row per compiled snapshot (id, name, version, source)
  documents: one row per collection element, JSON body, stored in
             dataset order (position)

APPEND-ONLY:
  A snapshot is written once inside a single transaction and never
  updated. Rebuilding writes a new snapshot; Load returns the latest.
  Prune removes old snapshots.

WAL MODE:
  Opened with WAL so the server can read while build-db writes.

USAGE:
  store, err := sqlite.New("./data/welfare.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.Save(ctx, snap)
  snap, err = store.Load(ctx)

SEE ALSO:
  - factory/dataset.go: builds the Snapshot being saved
  - store/memory: holds the Catalog built from a loaded Snapshot
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/welfare-intel/welfare"
)

var (
	// ErrSnapshotNotFound is returned when the database holds no snapshot
	// with the requested id (or no snapshot at all).
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrDuplicateSnapshot is returned when a snapshot id is saved twice.
	ErrDuplicateSnapshot = errors.New("snapshot already stored")
)

// Store persists compiled snapshots.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		source TEXT NOT NULL,
		loaded_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at
		ON snapshots(created_at);

	-- One row per collection element, in dataset order
	CREATE TABLE IF NOT EXISTS documents (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		collection TEXT NOT NULL,
		position INTEGER NOT NULL,
		doc_key TEXT,
		body_json TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, collection, position)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_key
		ON documents(snapshot_id, collection, doc_key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT RECORDS
// =============================================================================

// SnapshotRecord is the metadata row of a stored snapshot.
type SnapshotRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at"`
	CreatedAt time.Time `json:"created_at"`
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes snap and all its documents in one transaction.
func (s *Store) Save(ctx context.Context, snap *welfare.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, version, source, loaded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, snap.Version, snap.Source,
		snap.LoadedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateSnapshot, snap.ID)
		}
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := saveCollections(ctx, sqlTx, snap); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func saveCollections(ctx context.Context, tx execer, snap *welfare.Snapshot) error {
	id := snap.ID
	steps := []func() error{
		func() error {
			return saveCollection(ctx, tx, id, "companies", snap.Companies, func(c welfare.Company) string { return c.ID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "financials", snap.Financials, func(f welfare.CompanyFinancials) string { return f.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "histories", snap.Histories, func(h welfare.CompanyHistory) string { return h.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "strategies", snap.Strategies, func(st welfare.CompanyStrategy) string { return st.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "advantages", snap.Advantages, func(a welfare.CompetitiveAdvantage) string { return a.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "trends", snap.Trends, func(t welfare.IndustryTrend) string { return t.ID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "notes", snap.Notes, func(n welfare.AnalysisNote) string { return n.ID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "business_plans", snap.BusinessPlans, func(p welfare.CompanyBusinessPlan) string { return p.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "glossary", snap.Glossary, func(g welfare.GlossaryCategory) string { return g.Key })
		},
		func() error {
			return saveCollection(ctx, tx, id, "research", snap.Research, func(r welfare.WebResearchData) string { return r.CompanyID })
		},
		func() error {
			return saveCollection(ctx, tx, id, "facilities", snap.Facilities, func(f welfare.FacilityAnalysis) string { return f.Slug })
		},
		func() error {
			return saveCollection(ctx, tx, id, "disabilities", snap.Disabilities, func(d welfare.DisabilityCategory) string { return d.ID })
		},
		func() error {
			if snap.Market == nil {
				return nil
			}
			return saveCollection(ctx, tx, id, "market", []welfare.MarketOverview{*snap.Market}, func(welfare.MarketOverview) string { return "" })
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func saveCollection[T any](ctx context.Context, tx execer, snapshotID, collection string, items []T, key func(T) string) error {
	for i, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode %s[%d]: %w", collection, i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (snapshot_id, collection, position, doc_key, body_json)
			VALUES (?, ?, ?, ?, ?)
		`, snapshotID, collection, i, nullString(key(item)), string(body))
		if err != nil {
			return fmt.Errorf("failed to insert %s[%d]: %w", collection, i, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load returns the most recently saved snapshot.
func (s *Store) Load(ctx context.Context) (*welfare.Snapshot, error) {
	s.mu.RLock()
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	s.mu.RUnlock()
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return s.LoadByID(ctx, id)
}

// LoadByID returns the snapshot with id.
func (s *Store) LoadByID(ctx context.Context, id string) (*welfare.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := &welfare.Snapshot{
		ID:       rec.ID,
		Name:     rec.Name,
		Version:  rec.Version,
		Source:   rec.Source,
		LoadedAt: rec.LoadedAt,
	}

	if snap.Companies, err = loadCollection[welfare.Company](ctx, s.db, id, "companies"); err != nil {
		return nil, err
	}
	if snap.Financials, err = loadCollection[welfare.CompanyFinancials](ctx, s.db, id, "financials"); err != nil {
		return nil, err
	}
	if snap.Histories, err = loadCollection[welfare.CompanyHistory](ctx, s.db, id, "histories"); err != nil {
		return nil, err
	}
	if snap.Strategies, err = loadCollection[welfare.CompanyStrategy](ctx, s.db, id, "strategies"); err != nil {
		return nil, err
	}
	if snap.Advantages, err = loadCollection[welfare.CompetitiveAdvantage](ctx, s.db, id, "advantages"); err != nil {
		return nil, err
	}
	if snap.Trends, err = loadCollection[welfare.IndustryTrend](ctx, s.db, id, "trends"); err != nil {
		return nil, err
	}
	if snap.Notes, err = loadCollection[welfare.AnalysisNote](ctx, s.db, id, "notes"); err != nil {
		return nil, err
	}
	if snap.BusinessPlans, err = loadCollection[welfare.CompanyBusinessPlan](ctx, s.db, id, "business_plans"); err != nil {
		return nil, err
	}
	if snap.Glossary, err = loadCollection[welfare.GlossaryCategory](ctx, s.db, id, "glossary"); err != nil {
		return nil, err
	}
	if snap.Research, err = loadCollection[welfare.WebResearchData](ctx, s.db, id, "research"); err != nil {
		return nil, err
	}
	if snap.Facilities, err = loadCollection[welfare.FacilityAnalysis](ctx, s.db, id, "facilities"); err != nil {
		return nil, err
	}
	if snap.Disabilities, err = loadCollection[welfare.DisabilityCategory](ctx, s.db, id, "disabilities"); err != nil {
		return nil, err
	}
	market, err := loadCollection[welfare.MarketOverview](ctx, s.db, id, "market")
	if err != nil {
		return nil, err
	}
	if len(market) > 0 {
		snap.Market = &market[0]
	}
	return snap, nil
}

func (s *Store) getRecord(ctx context.Context, id string) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	var loadedAt, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, version, source, loaded_at, created_at
		FROM snapshots WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Name, &rec.Version, &rec.Source, &loadedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	rec.LoadedAt, _ = time.Parse(time.RFC3339Nano, loadedAt)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &rec, nil
}

func loadCollection[T any](ctx context.Context, db *sql.DB, snapshotID, collection string) ([]T, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT body_json FROM documents
		WHERE snapshot_id = ? AND collection = ?
		ORDER BY position
	`, snapshotID, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s row %d: %w", collection, len(out), err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// ListSnapshots returns stored snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, version, source, loaded_at, created_at
		FROM snapshots ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var loadedAt, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Version, &rec.Source, &loadedAt, &createdAt); err != nil {
			return nil, err
		}
		rec.LoadedAt, _ = time.Parse(time.RFC3339Nano, loadedAt)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots. Returns the number
// deleted.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Reset deletes every snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM documents; DELETE FROM snapshots;`)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
