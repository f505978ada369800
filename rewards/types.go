/*
Package rewards models welfare service reward revisions (報酬改定).

PURPOSE:
  The public fee schedule for disability-welfare services is revised every
  few years, and new service types are created by law. Each facility
  analysis carries the revisions that affected its service; the market
  view groups them across services.

  Revisions are sparse, dense yearly series are not: a service has a
  facility count for every year but a revision only in some years. The
  overlay in the analytics package joins the two.

REVISION TYPES:
  creation: the service type was created that year (新設)
  revision: the fee schedule changed that year (改定)

SERVICE CATEGORIES:
  child:        障害児通所 (after-school day service, child development)
  residential:  居住支援 (group homes)
  employment:   訓練・就労 (employment transition, continuous A/B)
  consultation: 相談支援
  visit:        訪問系 (home help)

SEE ALSO:
  - timeline.go: cross-service grouping by year
  - categories.go: category labels and colors
  - analytics/overlay.go: year lookup used by growth charts
*/
package rewards

// =============================================================================
// REVISION
// =============================================================================

// Type distinguishes a service creation from a fee revision.
type Type string

const (
	TypeCreation Type = "creation"
	TypeRevision Type = "revision"
)

// Label returns the Japanese display label.
func (t Type) Label() string {
	switch t {
	case TypeCreation:
		return "新設"
	case TypeRevision:
		return "改定"
	default:
		return string(t)
	}
}

// Revision is one reward revision affecting a service.
type Revision struct {
	Year        int      `json:"year"`
	Title       string   `json:"title"`
	Type        Type     `json:"type"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	BaseReward  string   `json:"baseReward"`
	KeyChanges  []string `json:"keyChanges"`
}

// YearOf returns the revision year. It is the key function for overlays.
func YearOf(r Revision) int { return r.Year }

// =============================================================================
// SERVICE CATALOG
// =============================================================================

// ServiceEntry is the revision history of one service type.
type ServiceEntry struct {
	ServiceType string     `json:"serviceType"`
	ServiceSlug string     `json:"serviceSlug"`
	Category    Category   `json:"category"`
	Revisions   []Revision `json:"revisions"`
}

// ByYear indexes revisions by year. When a year repeats, the first
// revision wins.
func ByYear(revs []Revision) map[int]Revision {
	out := make(map[int]Revision, len(revs))
	for _, r := range revs {
		if _, ok := out[r.Year]; !ok {
			out[r.Year] = r
		}
	}
	return out
}

// Find returns the revision recorded for year.
func Find(revs []Revision, year int) (Revision, bool) {
	for _, r := range revs {
		if r.Year == year {
			return r, true
		}
	}
	return Revision{}, false
}
