package welfare

import "github.com/warp/welfare-intel/analytics"

// TrendPoint is one year of a prevalence trend.
type TrendPoint struct {
	Year  int     `json:"year"`
	Count float64 `json:"count"`
}

// DisabilityStatistics summarises the population of a disability category.
type DisabilityStatistics struct {
	TotalPopulation string       `json:"totalPopulation"`
	PopulationNote  string       `json:"populationNote"`
	PrevalenceRate  float64      `json:"prevalenceRate"`
	PrevalenceNote  string       `json:"prevalenceNote"`
	Trend           string       `json:"trend"`
	TrendData       []TrendPoint `json:"trendData"`
}

// DisabilitySubtype is a diagnosis within a category.
type DisabilitySubtype struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DisabilityEmployment summarises the employment situation of a category.
type DisabilityEmployment struct {
	EmploymentRate     string   `json:"employmentRate"`
	EmploymentRateNote string   `json:"employmentRateNote"`
	AverageSalary      string   `json:"averageSalary"`
	AverageSalaryNote  string   `json:"averageSalaryNote"`
	Difficulties       []string `json:"difficulties"`
	WorkplaceSupport   []string `json:"workplaceSupport"`
}

// DisabilityCategory is reference material for one disability category.
type DisabilityCategory struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Icon            string               `json:"icon"`
	Color           string               `json:"color"`
	Overview        string               `json:"overview"`
	Statistics      DisabilityStatistics `json:"statistics"`
	SubTypes        []DisabilitySubtype  `json:"subTypes"`
	RelatedServices []string             `json:"relatedServices"`
	Employment      DisabilityEmployment `json:"employment"`
	Treatments      []string             `json:"treatments"`
}

// TrendSeries returns the prevalence trend as a series.
func (d *DisabilityCategory) TrendSeries() []analytics.Point {
	return analytics.Series(d.Statistics.TrendData,
		func(t TrendPoint) int { return t.Year },
		func(t TrendPoint) float64 { return t.Count })
}

// DisabilitySummary is the list view of a disability category.
type DisabilitySummary struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Color        string              `json:"color"`
	Prevalence   float64             `json:"prevalence_rate"`
	SubtypeCount int                 `json:"subtype_count"`
	TrendGrowth  *float64            `json:"trend_growth"`
	Direction    analytics.Direction `json:"direction"`
	Sparkline    []float64           `json:"sparkline"`
}

// Summarize builds the list view of a category.
func (d *DisabilityCategory) Summarize() DisabilitySummary {
	series := d.TrendSeries()
	g := analytics.Growth(series)
	return DisabilitySummary{
		ID:           d.ID,
		Title:        d.Title,
		Color:        d.Color,
		Prevalence:   d.Statistics.PrevalenceRate,
		SubtypeCount: len(d.SubTypes),
		TrendGrowth:  g,
		Direction:    analytics.ClassifyGrowth(g),
		Sparkline:    analytics.Sparkline(series),
	}
}

// Subtype returns the subtype with id.
func (d *DisabilityCategory) Subtype(id string) (DisabilitySubtype, bool) {
	for _, s := range d.SubTypes {
		if s.ID == id {
			return s, true
		}
	}
	return DisabilitySubtype{}, false
}
