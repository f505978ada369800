package welfare

import (
	"sort"

	"github.com/warp/welfare-intel/rewards"
)

// TrendQuery filters industry trends. Empty fields match everything.
type TrendQuery struct {
	Category  string
	CompanyID string
}

// FilterTrends returns trends matching q, newest first.
func FilterTrends(trends []IndustryTrend, q TrendQuery) []IndustryTrend {
	out := []IndustryTrend{}
	for _, t := range trends {
		if q.Category != "" && q.Category != "all" && string(t.Category) != q.Category {
			continue
		}
		if q.CompanyID != "" && !impacts(t, q.CompanyID) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func impacts(t IndustryTrend, companyID string) bool {
	for _, ci := range t.ImpactByCompany {
		if ci.CompanyID == companyID {
			return true
		}
	}
	return false
}

// FilterNotes returns notes related to companyID (all when empty), newest
// first.
func FilterNotes(notes []AnalysisNote, companyID string) []AnalysisNote {
	out := []AnalysisNote{}
	for _, n := range notes {
		if companyID != "" && !contains(n.RelatedCompanies, companyID) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// WelfareHistory returns the market's welfare history in year order.
func WelfareHistory(m *MarketOverview) []WelfareHistoryEvent {
	out := append([]WelfareHistoryEvent{}, m.WelfareHistory...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// RevisionCatalog lists every service's revision history in catalog order.
func RevisionCatalog(c *Catalog) []rewards.ServiceEntry {
	out := make([]rewards.ServiceEntry, 0, len(c.snap.Facilities))
	for i := range c.snap.Facilities {
		out = append(out, c.snap.Facilities[i].RevisionEntry())
	}
	return out
}

// ServiceSummary is one entry of the service type list.
type ServiceSummary struct {
	Slug        string           `json:"slug"`
	ServiceType string           `json:"service_type"`
	ServiceCode string           `json:"service_code"`
	Category    rewards.Category `json:"category"`
	Color       string           `json:"color"`
	Facilities  int              `json:"facilities"`
	Revisions   int              `json:"revisions"`
}

// ServiceSummaries lists service types with their latest facility count.
func ServiceSummaries(c *Catalog) []ServiceSummary {
	out := make([]ServiceSummary, 0, len(c.snap.Facilities))
	for i := range c.snap.Facilities {
		f := &c.snap.Facilities[i]
		s := ServiceSummary{
			Slug:        f.Slug,
			ServiceType: f.ServiceType,
			ServiceCode: f.ServiceCode,
			Category:    f.Category,
			Color:       ServiceColor(f.ServiceType),
			Revisions:   len(f.RewardRevisions),
		}
		if n := len(f.FacilityTimeSeries); n > 0 {
			s.Facilities = f.FacilityTimeSeries[n-1].Count
		}
		out = append(out, s)
	}
	return out
}
