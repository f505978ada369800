/*
catalog.go - Snapshot and indexed accessors

PURPOSE:
  A Snapshot is one immutable load of the whole dataset. A Catalog wraps a
  Snapshot with id indexes so every lookup is a map access. Both are built
  once per load and shared read-only across requests.

INVARIANTS:
  - Nothing writes to a Snapshot after NewCatalog.
  - Lookups for optional collections (financials, history, strategy, ...)
    return nil when absent. Callers render a placeholder.
  - Lookups for primary entities (company, service, disability) return a
    not-found error that maps to HTTP 404.

SEE ALSO:
  - factory/dataset.go: builds Snapshots from a dataset directory
  - store/memory: holds the current Catalog
*/
package welfare

import (
	"time"
)

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	Companies     []Company              `json:"companies"`
	Financials    []CompanyFinancials    `json:"financials"`
	Histories     []CompanyHistory       `json:"histories"`
	Strategies    []CompanyStrategy      `json:"strategies"`
	Advantages    []CompetitiveAdvantage `json:"advantages"`
	Trends        []IndustryTrend        `json:"trends"`
	Notes         []AnalysisNote         `json:"notes"`
	BusinessPlans []CompanyBusinessPlan  `json:"business_plans"`
	Glossary      []GlossaryCategory     `json:"glossary"`
	Research      []WebResearchData      `json:"research"`
	Market        *MarketOverview        `json:"market,omitempty"`
	Facilities    []FacilityAnalysis     `json:"facilities"`
	Disabilities  []DisabilityCategory   `json:"disabilities"`
}

// Counts reports the size of every collection.
func (s *Snapshot) Counts() map[string]int {
	market := 0
	if s.Market != nil {
		market = 1
	}
	return map[string]int{
		"companies":      len(s.Companies),
		"financials":     len(s.Financials),
		"histories":      len(s.Histories),
		"strategies":     len(s.Strategies),
		"advantages":     len(s.Advantages),
		"trends":         len(s.Trends),
		"notes":          len(s.Notes),
		"business_plans": len(s.BusinessPlans),
		"glossary":       len(s.Glossary),
		"research":       len(s.Research),
		"market":         market,
		"facilities":     len(s.Facilities),
		"disabilities":   len(s.Disabilities),
	}
}

// Catalog is an indexed, read-only view of a Snapshot.
type Catalog struct {
	snap *Snapshot

	companies    map[string]*Company
	financials   map[string]*CompanyFinancials
	histories    map[string]*CompanyHistory
	strategies   map[string]*CompanyStrategy
	advantages   map[string]*CompetitiveAdvantage
	plans        map[string]*CompanyBusinessPlan
	research     map[string]*WebResearchData
	facilities   map[string]*FacilityAnalysis
	disabilities map[string]*DisabilityCategory
}

// NewCatalog indexes s. When an id repeats, the first record wins; the
// consistency report flags the duplicate.
func NewCatalog(s *Snapshot) *Catalog {
	if s == nil {
		s = &Snapshot{}
	}
	c := &Catalog{
		snap:         s,
		companies:    make(map[string]*Company, len(s.Companies)),
		financials:   make(map[string]*CompanyFinancials, len(s.Financials)),
		histories:    make(map[string]*CompanyHistory, len(s.Histories)),
		strategies:   make(map[string]*CompanyStrategy, len(s.Strategies)),
		advantages:   make(map[string]*CompetitiveAdvantage, len(s.Advantages)),
		plans:        make(map[string]*CompanyBusinessPlan, len(s.BusinessPlans)),
		research:     make(map[string]*WebResearchData, len(s.Research)),
		facilities:   make(map[string]*FacilityAnalysis, len(s.Facilities)),
		disabilities: make(map[string]*DisabilityCategory, len(s.Disabilities)),
	}
	for i := range s.Companies {
		index(c.companies, s.Companies[i].ID, &s.Companies[i])
	}
	for i := range s.Financials {
		index(c.financials, s.Financials[i].CompanyID, &s.Financials[i])
	}
	for i := range s.Histories {
		index(c.histories, s.Histories[i].CompanyID, &s.Histories[i])
	}
	for i := range s.Strategies {
		index(c.strategies, s.Strategies[i].CompanyID, &s.Strategies[i])
	}
	for i := range s.Advantages {
		index(c.advantages, s.Advantages[i].CompanyID, &s.Advantages[i])
	}
	for i := range s.BusinessPlans {
		index(c.plans, s.BusinessPlans[i].CompanyID, &s.BusinessPlans[i])
	}
	for i := range s.Research {
		index(c.research, s.Research[i].CompanyID, &s.Research[i])
	}
	for i := range s.Facilities {
		index(c.facilities, s.Facilities[i].Slug, &s.Facilities[i])
	}
	for i := range s.Disabilities {
		index(c.disabilities, s.Disabilities[i].ID, &s.Disabilities[i])
	}
	return c
}

func index[T any](m map[string]*T, key string, v *T) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

// Snapshot returns the underlying snapshot.
func (c *Catalog) Snapshot() *Snapshot { return c.snap }

// ID returns the snapshot id.
func (c *Catalog) ID() string { return c.snap.ID }

// =============================================================================
// COMPANIES
// =============================================================================

// Companies returns every company in dataset order.
func (c *Catalog) Companies() []Company { return c.snap.Companies }

// Company returns the company with id.
func (c *Catalog) Company(id string) (*Company, error) {
	if co, ok := c.companies[id]; ok {
		return co, nil
	}
	return nil, companyNotFound(id)
}

// HasCompany reports whether id resolves.
func (c *Catalog) HasCompany(id string) bool {
	_, ok := c.companies[id]
	return ok
}

func (c *Catalog) Financials(companyID string) *CompanyFinancials { return c.financials[companyID] }
func (c *Catalog) History(companyID string) *CompanyHistory       { return c.histories[companyID] }
func (c *Catalog) Strategy(companyID string) *CompanyStrategy     { return c.strategies[companyID] }
func (c *Catalog) Advantage(companyID string) *CompetitiveAdvantage {
	return c.advantages[companyID]
}
func (c *Catalog) Research(companyID string) *WebResearchData { return c.research[companyID] }

// BusinessPlan returns the plan of a company.
func (c *Catalog) BusinessPlan(companyID string) (*CompanyBusinessPlan, error) {
	if p, ok := c.plans[companyID]; ok {
		return p, nil
	}
	return nil, planNotFound(companyID)
}

// =============================================================================
// MARKET & REFERENCE
// =============================================================================

// Market returns the market overview, never nil.
func (c *Catalog) Market() *MarketOverview {
	if c.snap.Market == nil {
		return &MarketOverview{}
	}
	return c.snap.Market
}

func (c *Catalog) Trends() []IndustryTrend        { return c.snap.Trends }
func (c *Catalog) Notes() []AnalysisNote          { return c.snap.Notes }
func (c *Catalog) Glossary() []GlossaryCategory   { return c.snap.Glossary }
func (c *Catalog) Facilities() []FacilityAnalysis { return c.snap.Facilities }

// Facility returns the analysis of the service with slug.
func (c *Catalog) Facility(slug string) (*FacilityAnalysis, error) {
	if f, ok := c.facilities[slug]; ok {
		return f, nil
	}
	return nil, serviceNotFound(slug)
}

// Disabilities returns every disability category.
func (c *Catalog) Disabilities() []DisabilityCategory { return c.snap.Disabilities }

// Disability returns the category with id.
func (c *Catalog) Disability(id string) (*DisabilityCategory, error) {
	if d, ok := c.disabilities[id]; ok {
		return d, nil
	}
	return nil, disabilityNotFound(id)
}
