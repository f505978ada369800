/*
Package factory provides dataset directory to Snapshot conversion.

PURPOSE:
  Converts the curated JSON documents of a dataset directory into one
  immutable welfare.Snapshot. Analysts edit the JSON by hand; the factory
  is the only place that knows file names and document shapes.

MANIFEST:
  Every dataset directory carries a manifest.yaml naming its documents:

    name: welfare-intel
    version: "2025.06"
    collections:
      companies: companies.json
      financials: financials.json
      market: market.json
    facilities:
      houkago-day: facility/houkago-day.json
      shuro-ikou:
        file: facility/shuro-ikou.json
        category: employment

  A facility entry is either a file name or a mapping with file and
  category. Facilities keep manifest order; the key becomes the slug.

RULES:
  - companies is required (ErrMissingCollection).
  - Every other collection is optional and loads as empty.
  - An unknown collection name is a manifest error (ErrInvalidManifest).
  - Malformed JSON fails the load with a *DocumentError naming the file.
  - Files are read and decoded concurrently; the snapshot is assembled
    only after every document decoded.

USAGE:
  f := factory.NewDatasetFactory()
  snap, err := f.Load(ctx, "./data")

SEE ALSO:
  - welfare/catalog.go: Snapshot definition
  - store/sqlite: compiled snapshots built from the same Snapshot
*/
package factory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/warp/welfare-intel/rewards"
	"github.com/warp/welfare-intel/welfare"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the manifest inside a dataset directory.
const ManifestFile = "manifest.yaml"

// maxParallelReads bounds concurrent document reads.
const maxParallelReads = 8

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrMissingCollection = errors.New("required collection missing")
	ErrInvalidManifest   = errors.New("invalid manifest")
)

// DocumentError names the dataset file that failed to load.
type DocumentError struct {
	File string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("dataset document %s: %v", e.File, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// =============================================================================
// MANIFEST SCHEMA
// =============================================================================

// Manifest is the parsed manifest.yaml.
type Manifest struct {
	Name        string       `yaml:"name"`
	Version     string       `yaml:"version"`
	Collections FileList     `yaml:"collections"`
	Facilities  FacilityList `yaml:"facilities"`
}

// FileRef is one named document of the manifest.
type FileRef struct {
	Key      string
	File     string
	Category rewards.Category
}

// FileList is a YAML mapping of key to file name, kept in document order.
type FileList []FileRef

// UnmarshalYAML decodes a mapping node preserving key order.
func (l *FileList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping of collection to file", node.Line)
	}
	var out FileList
	for i := 0; i+1 < len(node.Content); i += 2 {
		var file string
		if err := node.Content[i+1].Decode(&file); err != nil {
			return fmt.Errorf("collection %s: %w", node.Content[i].Value, err)
		}
		out = append(out, FileRef{Key: node.Content[i].Value, File: file})
	}
	*l = out
	return nil
}

// FacilityList is the facilities mapping, kept in document order.
type FacilityList []FileRef

// UnmarshalYAML accepts "slug: file" and "slug: {file, category}" entries.
func (l *FacilityList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping of service slug to file", node.Line)
	}
	var out FacilityList
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		ref := FileRef{Key: key}
		switch val.Kind {
		case yaml.ScalarNode:
			ref.File = val.Value
		case yaml.MappingNode:
			var entry struct {
				File     string `yaml:"file"`
				Category string `yaml:"category"`
			}
			if err := val.Decode(&entry); err != nil {
				return fmt.Errorf("facility %s: %w", key, err)
			}
			ref.File = entry.File
			ref.Category = rewards.Category(entry.Category)
		default:
			return fmt.Errorf("facility %s: line %d: expected file name or mapping", key, val.Line)
		}
		out = append(out, ref)
	}
	*l = out
	return nil
}

// File returns the file of a collection, or "" when absent.
func (m *Manifest) File(collection string) string {
	for _, r := range m.Collections {
		if r.Key == collection {
			return r.File
		}
	}
	return ""
}

// =============================================================================
// COLLECTION REGISTRY
// =============================================================================

// collectionTargets maps a collection name to the Snapshot field its
// document decodes into.
var collectionTargets = map[string]func(*welfare.Snapshot) any{
	"companies":      func(s *welfare.Snapshot) any { return &s.Companies },
	"financials":     func(s *welfare.Snapshot) any { return &s.Financials },
	"histories":      func(s *welfare.Snapshot) any { return &s.Histories },
	"strategies":     func(s *welfare.Snapshot) any { return &s.Strategies },
	"advantages":     func(s *welfare.Snapshot) any { return &s.Advantages },
	"trends":         func(s *welfare.Snapshot) any { return &s.Trends },
	"notes":          func(s *welfare.Snapshot) any { return &s.Notes },
	"business_plans": func(s *welfare.Snapshot) any { return &s.BusinessPlans },
	"glossary":       func(s *welfare.Snapshot) any { return &s.Glossary },
	"research":       func(s *welfare.Snapshot) any { return &s.Research },
	"market":         func(s *welfare.Snapshot) any { return &s.Market },
	"disabilities":   func(s *welfare.Snapshot) any { return &s.Disabilities },
}

// requiredCollections must appear in every manifest.
var requiredCollections = []string{"companies"}

// =============================================================================
// DATASET FACTORY
// =============================================================================

// DatasetFactory converts dataset directories to Snapshots.
type DatasetFactory struct {
	now func() time.Time
}

// NewDatasetFactory creates a new dataset factory.
func NewDatasetFactory() *DatasetFactory {
	return &DatasetFactory{now: time.Now}
}

// ParseManifest parses and checks manifest YAML.
func (f *DatasetFactory) ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	for _, r := range m.Collections {
		if _, ok := collectionTargets[r.Key]; !ok {
			return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidManifest, r.Key)
		}
		if r.File == "" {
			return nil, fmt.Errorf("%w: collection %q has no file", ErrInvalidManifest, r.Key)
		}
	}
	for _, r := range m.Facilities {
		if r.File == "" {
			return nil, fmt.Errorf("%w: facility %q has no file", ErrInvalidManifest, r.Key)
		}
		if r.Category != "" {
			if _, ok := rewards.LookupCategory(r.Category); !ok {
				return nil, fmt.Errorf("%w: facility %q has unknown category %q", ErrInvalidManifest, r.Key, r.Category)
			}
		}
	}
	for _, name := range requiredCollections {
		if m.File(name) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollection, name)
		}
	}
	return &m, nil
}

// ReadManifest reads dir/manifest.yaml.
func (f *DatasetFactory) ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return f.ParseManifest(data)
}

// Load reads a dataset directory into a new Snapshot.
func (f *DatasetFactory) Load(ctx context.Context, dir string) (*welfare.Snapshot, error) {
	m, err := f.ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	snap := &welfare.Snapshot{
		ID:       uuid.NewString(),
		Name:     m.Name,
		Version:  m.Version,
		Source:   dir,
		LoadedAt: f.now().UTC(),
	}
	facilities := make([]welfare.FacilityAnalysis, len(m.Facilities))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelReads)

	// Each goroutine decodes into a distinct field or slice element.
	for _, r := range m.Collections {
		target := collectionTargets[r.Key](snap)
		eg.Go(func() error {
			return decodeFile(egCtx, filepath.Join(dir, r.File), r.File, target)
		})
	}
	for i, r := range m.Facilities {
		eg.Go(func() error {
			if err := decodeFile(egCtx, filepath.Join(dir, r.File), r.File, &facilities[i]); err != nil {
				return err
			}
			facilities[i].Slug = r.Key
			if r.Category != "" {
				facilities[i].Category = r.Category
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	snap.Facilities = facilities
	normalize(snap)
	return snap, nil
}

func decodeFile(ctx context.Context, path, name string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &DocumentError{File: name, Err: err}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &DocumentError{File: name, Err: err}
	}
	return nil
}

// normalize replaces nil collections with empty slices so the API never
// emits null for a list.
func normalize(s *welfare.Snapshot) {
	if s.Companies == nil {
		s.Companies = []welfare.Company{}
	}
	if s.Financials == nil {
		s.Financials = []welfare.CompanyFinancials{}
	}
	if s.Histories == nil {
		s.Histories = []welfare.CompanyHistory{}
	}
	if s.Strategies == nil {
		s.Strategies = []welfare.CompanyStrategy{}
	}
	if s.Advantages == nil {
		s.Advantages = []welfare.CompetitiveAdvantage{}
	}
	if s.Trends == nil {
		s.Trends = []welfare.IndustryTrend{}
	}
	if s.Notes == nil {
		s.Notes = []welfare.AnalysisNote{}
	}
	if s.BusinessPlans == nil {
		s.BusinessPlans = []welfare.CompanyBusinessPlan{}
	}
	if s.Glossary == nil {
		s.Glossary = []welfare.GlossaryCategory{}
	}
	if s.Research == nil {
		s.Research = []welfare.WebResearchData{}
	}
	if s.Facilities == nil {
		s.Facilities = []welfare.FacilityAnalysis{}
	}
	if s.Disabilities == nil {
		s.Disabilities = []welfare.DisabilityCategory{}
	}
}
