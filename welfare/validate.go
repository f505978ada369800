/*
validate.go - Dataset consistency report

PURPOSE:
  The dataset is hand-curated JSON. Derivations assume year series are
  ascending and company ids resolve, but they never fail when that is not
  true. The report surfaces such problems so the curator can fix them; a
  report with errors does not prevent serving.

SEVERITY:
  error:   the dataset contradicts itself (duplicate ids, unknown category,
           threat level outside 1..5, a company without an id)
  warning: a derivation will show placeholders or misordered figures
           (unsorted series, a collection entry for an unknown company)
  info:    noteworthy gaps (full-data company without financials)
*/
package welfare

import "fmt"

// Severity indicates how critical a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single consistency issue.
type Finding struct {
	Severity   Severity `json:"severity"`
	Collection string   `json:"collection"`
	Key        string   `json:"key,omitempty"`
	Message    string   `json:"message"`
}

// Report is the complete consistency output.
type Report struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Info     []Finding `json:"info"`
	Summary  string    `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{Valid: true, Errors: []Finding{}, Warnings: []Finding{}, Info: []Finding{}}
	r.updateSummary()
	return r
}

// AddError adds an error finding and marks the report invalid.
func (r *Report) AddError(collection, key, format string, args ...any) {
	r.Errors = append(r.Errors, Finding{SeverityError, collection, key, fmt.Sprintf(format, args...)})
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning finding.
func (r *Report) AddWarning(collection, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, Finding{SeverityWarning, collection, key, fmt.Sprintf(format, args...)})
	r.updateSummary()
}

// AddInfo adds an informational finding.
func (r *Report) AddInfo(collection, key, format string, args ...any) {
	r.Info = append(r.Info, Finding{SeverityInfo, collection, key, fmt.Sprintf(format, args...)})
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

// Validate checks a snapshot for internal consistency.
func Validate(s *Snapshot) *Report {
	r := NewReport()
	c := NewCatalog(s)

	validateCompanies(r, s)
	validateFinancials(r, c, s)

	for _, h := range s.Histories {
		checkCompanyRef(r, c, "histories", h.CompanyID)
	}
	for _, st := range s.Strategies {
		checkCompanyRef(r, c, "strategies", st.CompanyID)
	}
	for _, a := range s.Advantages {
		checkCompanyRef(r, c, "advantages", a.CompanyID)
		if a.Insights.ThreatLevel != 0 && !a.Insights.ThreatLevel.Valid() {
			r.AddError("advantages", a.CompanyID, "threat level %d outside 1..5", a.Insights.ThreatLevel)
		}
	}
	for _, p := range s.BusinessPlans {
		checkCompanyRef(r, c, "business_plans", p.CompanyID)
	}
	for _, t := range s.Trends {
		for _, ci := range t.ImpactByCompany {
			if !c.HasCompany(ci.CompanyID) {
				r.AddWarning("trends", t.ID, "impact references unknown company %q", ci.CompanyID)
			}
		}
	}
	for _, n := range s.Notes {
		for _, id := range n.RelatedCompanies {
			if !c.HasCompany(id) {
				r.AddWarning("notes", n.ID, "related company %q not found", id)
			}
		}
	}

	if s.Market != nil {
		checkAscending(r, "market", "disabilityPopulation", years(s.Market.DisabilityPopulation, func(p PopulationYear) int { return p.Year }))
		checkAscending(r, "market", "disabilityEmployment", years(s.Market.DisabilityEmployment, func(e EmploymentYear) int { return e.Year }))
		checkAscending(r, "market", "facilityCountsByType", years(s.Market.FacilityCountsByType, func(f FacilityCountYear) int { return f.Year }))
	}

	seenSlug := map[string]bool{}
	for _, f := range s.Facilities {
		if seenSlug[f.Slug] {
			r.AddError("facilities", f.Slug, "duplicate service slug")
		}
		seenSlug[f.Slug] = true
		checkAscending(r, "facilities", f.Slug+".facilityTimeSeries", years(f.FacilityTimeSeries, func(y YearCount) int { return y.Year }))
		checkAscending(r, "facilities", f.Slug+".userTimeSeries", years(f.UserTimeSeries, func(y YearCount) int { return y.Year }))
	}

	seenDis := map[string]bool{}
	for _, d := range s.Disabilities {
		if seenDis[d.ID] {
			r.AddError("disabilities", d.ID, "duplicate disability id")
		}
		seenDis[d.ID] = true
	}
	return r
}

func validateCompanies(r *Report, s *Snapshot) {
	seen := map[string]bool{}
	for i, co := range s.Companies {
		if co.ID == "" {
			r.AddError("companies", fmt.Sprintf("#%d", i), "company without id")
			continue
		}
		if seen[co.ID] {
			r.AddError("companies", co.ID, "duplicate company id")
		}
		seen[co.ID] = true
		if !co.ThreatLevel.Valid() {
			r.AddError("companies", co.ID, "threat level %d outside 1..5", co.ThreatLevel)
		}
		if categoryOrder(co.Category) == len(Categories) {
			r.AddError("companies", co.ID, "unknown category %q", co.Category)
		}
		if priorityOrder(co.PriorityRank) == len(PriorityRanks) {
			r.AddWarning("companies", co.ID, "unknown priority rank %q", co.PriorityRank)
		}
	}
}

func validateFinancials(r *Report, c *Catalog, s *Snapshot) {
	for _, f := range s.Financials {
		checkCompanyRef(r, c, "financials", f.CompanyID)
		ys := make([]int, len(f.FiscalYears))
		for i, fy := range f.FiscalYears {
			ys[i] = fy.YearNumber(i)
		}
		checkAscending(r, "financials", f.CompanyID, ys)
	}
	for _, co := range s.Companies {
		if co.HasFullData && c.Financials(co.ID) == nil {
			r.AddInfo("financials", co.ID, "full-data company has no financials")
		}
	}
}

func checkCompanyRef(r *Report, c *Catalog, collection, id string) {
	if !c.HasCompany(id) {
		r.AddWarning(collection, id, "entry for unknown company")
	}
}

func checkAscending(r *Report, collection, key string, ys []int) {
	for i := 1; i < len(ys); i++ {
		if ys[i] <= ys[i-1] {
			r.AddWarning(collection, key, "years not ascending at index %d (%d after %d)", i, ys[i], ys[i-1])
			return
		}
	}
}

func years[T any](items []T, year func(T) int) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = year(it)
	}
	return out
}
