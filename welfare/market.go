/*
market.go - Market-level collections and KPI cards

PURPOSE:
  The market overview holds the macro series the dashboard opens with:
  disability population, disability employment and facility counts per
  service type. The four KPI cards summarise each with its latest value,
  growth against the previous year and a sparkline.

GROWTH:
  Every card uses analytics.Growth over the whole series, so a zero
  previous value yields no figure for all four cards alike.

SEE ALSO:
  - analytics/growth.go
  - facility.go: per-service detail
*/
package welfare

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warp/welfare-intel/analytics"
)

// =============================================================================
// COLLECTIONS
// =============================================================================

// PopulationYear is one year of disability population statistics.
type PopulationYear struct {
	Year            int     `json:"year"`
	Physical        int     `json:"physical"`
	Intellectual    int     `json:"intellectual"`
	Mental          int     `json:"mental"`
	Total           int     `json:"total"`
	PopulationRatio float64 `json:"populationRatio"`
}

// EmploymentYear is one year of disability employment statistics.
type EmploymentYear struct {
	Year                    int     `json:"year"`
	EmployedCount           float64 `json:"employedCount"`
	ActualRate              float64 `json:"actualRate"`
	LegalRate               float64 `json:"legalRate"`
	ComplianceRate          float64 `json:"complianceRate"`
	CompanyCount            *int    `json:"companyCount"`
	ZeroEmploymentCompanies *int    `json:"zeroEmploymentCompanies"`
}

// ServiceCount is the facility count of one service type.
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// ServiceCounts keeps the key order of the JSON object it was decoded from.
type ServiceCounts []ServiceCount

// UnmarshalJSON decodes {"service": count, ...} preserving key order.
func (sc *ServiceCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("services: expected object, got %v", tok)
	}
	var out ServiceCounts
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("services[%s]: %w", key, err)
		}
		out = append(out, ServiceCount{Service: key, Count: n})
	}
	*sc = out
	return nil
}

// MarshalJSON encodes back to an object in stored order.
func (sc ServiceCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range sc {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Service)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", c.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the count for service, or 0.
func (sc ServiceCounts) Get(service string) int {
	for _, c := range sc {
		if c.Service == service {
			return c.Count
		}
	}
	return 0
}

// Total sums every service.
func (sc ServiceCounts) Total() int {
	total := 0
	for _, c := range sc {
		total += c.Count
	}
	return total
}

// FacilityCountYear is the facility count of every service in one year.
type FacilityCountYear struct {
	Year     int           `json:"year"`
	Services ServiceCounts `json:"services"`
}

// MarketNews is a dated headline.
type MarketNews struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Source   string `json:"source,omitempty"`
}

// RecruitmentMethod is one channel's share of disability hiring.
type RecruitmentMethod struct {
	Method       string  `json:"method"`
	Abbreviation string  `json:"abbreviation"`
	Share        float64 `json:"share"`
	Trend        string  `json:"trend"`
	Description  string  `json:"description"`
}

// WelfareHistoryEvent is a milestone of the welfare system.
type WelfareHistoryEvent struct {
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Category    string `json:"category"` // law | system | milestone | international
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// EmploymentRateHistory is the legal vs actual employment rate of a year.
type EmploymentRateHistory struct {
	Year       int     `json:"year"`
	LegalRate  float64 `json:"legalRate"`
	ActualRate float64 `json:"actualRate"`
	Event      string  `json:"event,omitempty"`
}

// PolicyChange is a recent employment, reward or system change.
type PolicyChange struct {
	Year        int    `json:"year"`
	Month       int    `json:"month,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// InternationalCase is another country's disability welfare system.
type InternationalCase struct {
	Country        string   `json:"country"`
	CountryEn      string   `json:"countryEn"`
	Flag           string   `json:"flag"`
	System         string   `json:"system"`
	KeyFeatures    []string `json:"keyFeatures"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	LessonForJapan string   `json:"lessonForJapan"`
}

// MarketOverview is the market-level dataset.
type MarketOverview struct {
	LastUpdated           string                  `json:"lastUpdated"`
	Sources               []string                `json:"sources"`
	DisabilityPopulation  []PopulationYear        `json:"disabilityPopulation"`
	DisabilityEmployment  []EmploymentYear        `json:"disabilityEmployment"`
	FacilityCountsByType  []FacilityCountYear     `json:"facilityCountsByType"`
	News                  []MarketNews            `json:"news"`
	RecruitmentMethods    []RecruitmentMethod     `json:"recruitmentMethods"`
	WelfareHistory        []WelfareHistoryEvent   `json:"welfareHistory,omitempty"`
	EmploymentRateHistory []EmploymentRateHistory `json:"employmentRateHistory,omitempty"`
	RecentPolicyChanges   []PolicyChange          `json:"recentPolicyChanges,omitempty"`
	InternationalCases    []InternationalCase     `json:"internationalCases,omitempty"`
}

// PopulationSeries returns total disability population per year.
func (m *MarketOverview) PopulationSeries() []analytics.Point {
	return analytics.Series(m.DisabilityPopulation,
		func(p PopulationYear) int { return p.Year },
		func(p PopulationYear) float64 { return float64(p.Total) })
}

// EmploymentSeries returns the employed count per year.
func (m *MarketOverview) EmploymentSeries() []analytics.Point {
	return analytics.Series(m.DisabilityEmployment,
		func(e EmploymentYear) int { return e.Year },
		func(e EmploymentYear) float64 { return e.EmployedCount })
}

// LegalRateSeries returns the legal employment rate per year.
func (m *MarketOverview) LegalRateSeries() []analytics.Point {
	return analytics.Series(m.DisabilityEmployment,
		func(e EmploymentYear) int { return e.Year },
		func(e EmploymentYear) float64 { return e.LegalRate })
}

// FacilityTotalSeries returns the sum of all services per year.
func (m *MarketOverview) FacilityTotalSeries() []analytics.Point {
	return analytics.Series(m.FacilityCountsByType,
		func(f FacilityCountYear) int { return f.Year },
		func(f FacilityCountYear) float64 { return float64(f.Services.Total()) })
}

// =============================================================================
// KPI CARDS
// =============================================================================

// KPIKey identifies a market KPI card.
type KPIKey string

const (
	KPIPopulation KPIKey = "population"
	KPIEmployment KPIKey = "employment"
	KPIFacilities KPIKey = "facilities"
	KPILegalRate  KPIKey = "legal_rate"
)

// KPICard is one summary card of the market overview.
type KPICard struct {
	Key       KPIKey              `json:"key"`
	Label     string              `json:"label"`
	Value     *float64            `json:"value"`
	Display   string              `json:"display"`
	Sub       string              `json:"sub"`
	Growth    *float64            `json:"growth"`
	Direction analytics.Direction `json:"direction"`
	Change    string              `json:"change"`
	Source    string              `json:"source"`
	Sparkline []float64           `json:"sparkline"`
}

// MarketKPIs builds the four market KPI cards. Empty series produce cards
// with a nil value and Dash display.
func MarketKPIs(m *MarketOverview) []KPICard {
	if m == nil {
		m = &MarketOverview{}
	}

	pop := m.PopulationSeries()
	emp := m.EmploymentSeries()
	fac := m.FacilityTotalSeries()
	rate := m.LegalRateSeries()

	popCard := newCard(KPIPopulation, "障害者数", "内閣府 障害者白書", pop,
		func(v float64) string { return fmt.Sprintf("%.0f万人", v/10000) })
	if n := len(m.DisabilityPopulation); n > 0 {
		popCard.Sub = fmt.Sprintf("人口の%s%%", trimFloat(m.DisabilityPopulation[n-1].PopulationRatio))
	}

	empCard := newCard(KPIEmployment, "障害者雇用数", "厚生労働省 雇用状況集計", emp,
		func(v float64) string { return fmt.Sprintf("%.1f万人", v/10000) })
	rateCard := newCard(KPILegalRate, "法定雇用率", "厚生労働省", rate,
		func(v float64) string { return trimFloat(v) + "%" })
	if n := len(m.DisabilityEmployment); n > 0 {
		latest := m.DisabilityEmployment[n-1]
		empCard.Sub = "実雇用率 " + trimFloat(latest.ActualRate) + "%"
		rateCard.Sub = "達成率 " + trimFloat(latest.ComplianceRate) + "%"
	}

	facCard := newCard(KPIFacilities, "障害福祉事業所数", "e-Stat 社会福祉施設等調査", fac,
		func(v float64) string { return fmt.Sprintf("%.1f万", v/10000) })
	if n := len(m.FacilityCountsByType); n > 0 {
		facCard.Sub = fmt.Sprintf("%dサービス種類", len(m.FacilityCountsByType[n-1].Services))
	}

	return []KPICard{popCard, empCard, facCard, rateCard}
}

func newCard(key KPIKey, label, source string, series []analytics.Point, display func(float64) string) KPICard {
	g := analytics.Growth(series)
	card := KPICard{
		Key:       key,
		Label:     label,
		Display:   analytics.Dash,
		Growth:    g,
		Direction: analytics.ClassifyGrowth(g),
		Change:    analytics.FormatGrowth(g),
		Source:    source,
		Sparkline: analytics.Sparkline(series),
	}
	if p, ok := analytics.Latest(series); ok {
		v := p.Value
		card.Value = &v
		card.Display = display(v)
	}
	return card
}

// trimFloat renders v without trailing zeros, e.g. 2.5 -> "2.5", 3 -> "3".
func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
