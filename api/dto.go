/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Envelopes around the welfare view models. Most endpoints return a view
  model from the welfare package as-is; the types here add what the HTTP
  layer knows about (dataset identity, query echo, preset resolution).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - ErrorResponse: the body of every non-2xx JSON response

TYPES:
  Dataset:
    HealthDTO, DatasetDTO

  Companies:
    CompanyListDTO

  Comparison:
    PresetDTO

  Reference:
    RevisionTimelineDTO, DisabilityDTO

SEE ALSO:
  - handlers.go: Uses these types
  - welfare/: view models embedded in the responses
*/
package api

import (
	"time"

	"github.com/warp/welfare-intel/rewards"
	"github.com/warp/welfare-intel/welfare"
)

// =============================================================================
// DATASET
// =============================================================================

// HealthDTO reports liveness and which snapshot is served.
type HealthDTO struct {
	Status     string    `json:"status"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	SwappedAt  time.Time `json:"swapped_at,omitempty"`
	Versions   int       `json:"versions"`
}

// DatasetDTO describes the snapshot being served.
type DatasetDTO struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Version  string         `json:"version"`
	Source   string         `json:"source"`
	LoadedAt time.Time      `json:"loaded_at"`
	Counts   map[string]int `json:"counts"`
	Valid    bool           `json:"valid"`
	Summary  string         `json:"summary"`
}

// =============================================================================
// COMPANIES
// =============================================================================

// CompanyListDTO is the company list with the query that produced it.
type CompanyListDTO struct {
	Companies  []welfare.CompanyCard `json:"companies"`
	Total      int                   `json:"total"`
	Category   string                `json:"category"`
	Sort       string                `json:"sort"`
	Dir        string                `json:"dir"`
	Categories []welfare.Label       `json:"categories"`
}

// =============================================================================
// COMPARISON
// =============================================================================

// PresetDTO is a named comparison selection. Available holds the ids of
// the selection present in the served dataset.
type PresetDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CompanyIDs  []string `json:"company_ids"`
	Available   []string `json:"available"`
	Ready       bool     `json:"ready"`
}

// =============================================================================
// REFERENCE
// =============================================================================

// RevisionTimelineDTO is the cross-service reward revision timeline.
type RevisionTimelineDTO struct {
	Category   rewards.Category         `json:"category"`
	Categories []rewards.CategoryConfig `json:"categories"`
	Years      []rewards.YearGroup      `json:"years"`
}

// DisabilityDTO is a disability category with its derived summary.
type DisabilityDTO struct {
	*welfare.DisabilityCategory
	Summary welfare.DisabilitySummary `json:"summary"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
