/*
facility.go - Per-service facility analysis

PURPOSE:
  Each welfare service type (放課後等デイサービス, 就労移行支援, ...) has an
  analysis document: who operates the facilities, how large the operators
  are, how the facility and user counts grew, which reward revisions hit
  the service, and where the facilities are.

  FacilityView turns one document into the detail page view model. Every
  share and concentration figure comes from the analytics package so the
  bar chart and the flat table of the same distribution agree.

SEE ALSO:
  - analytics/concentration.go
  - analytics/overlay.go
  - rewards/types.go
*/
package welfare

import (
	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
	"github.com/warp/welfare-intel/rewards"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// EntityTypeCount is the number of facilities run by one kind of entity
// (株式会社, 社会福祉法人, NPO, ...).
type EntityTypeCount struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// EntityDistribution is the operator entity breakdown at a date.
type EntityDistribution struct {
	AsOf         string            `json:"asOf"`
	Total        int               `json:"total"`
	ByEntityType []EntityTypeCount `json:"byEntityType"`
}

// ScaleBucket is one operator-size bucket.
type ScaleBucket struct {
	Label string  `json:"label"`
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
	Color string  `json:"color"`
}

// OperatorScale is the distribution of operators by number of facilities.
type OperatorScale struct {
	AsOf    string        `json:"asOf"`
	Buckets []ScaleBucket `json:"buckets"`
}

// YearCount is one year of a facility or user series.
type YearCount struct {
	Year     int            `json:"year"`
	Count    int            `json:"count"`
	ByEntity map[string]int `json:"byEntity,omitempty"`
}

// PrefectureCount is the facility count of one prefecture.
type PrefectureCount struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// RegionalData lists facility counts by prefecture.
type RegionalData struct {
	TotalFacilities int               `json:"totalFacilities"`
	Source          string            `json:"source,omitempty"`
	ByPrefecture    []PrefectureCount `json:"byPrefecture"`
}

// PLItem is a monthly and annual amount in yen.
type PLItem struct {
	Label         string          `json:"label,omitempty"`
	Name          string          `json:"name,omitempty"`
	Category      string          `json:"category,omitempty"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	AnnualAmount  decimal.Decimal `json:"annualAmount"`
	Share         float64         `json:"share,omitempty"`
	Note          string          `json:"note,omitempty"`
	Detail        string          `json:"detail,omitempty"`
}

// RewardUnit describes how the base reward is priced.
type RewardUnit struct {
	BaseUnit  string  `json:"baseUnit"`
	UnitPrice float64 `json:"unitPrice"`
	Note      string  `json:"note"`
}

// PLRevenue is the revenue side of a model facility P&L.
type PLRevenue struct {
	BaseReward   PLItem          `json:"baseReward"`
	Bonuses      []PLItem        `json:"bonuses"`
	TotalMonthly decimal.Decimal `json:"totalMonthly"`
	TotalAnnual  decimal.Decimal `json:"totalAnnual"`
}

// PLCosts is the cost side of a model facility P&L.
type PLCosts struct {
	Items        []PLItem        `json:"items"`
	TotalMonthly decimal.Decimal `json:"totalMonthly"`
	TotalAnnual  decimal.Decimal `json:"totalAnnual"`
}

// FacilityPL is the P&L of a model facility.
type FacilityPL struct {
	Source       string     `json:"source"`
	Assumptions  string     `json:"assumptions"`
	RewardUnit   RewardUnit `json:"rewardUnit"`
	Revenue      PLRevenue  `json:"revenue"`
	Costs        PLCosts    `json:"costs"`
	ProfitMargin float64    `json:"profitMargin"`
	Note         string     `json:"note"`
}

// BonusItem is one additive reward (加算).
type BonusItem struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Units         string `json:"units"`
	Requirement   string `json:"requirement"`
	Difficulty    string `json:"difficulty"`
	RevenueImpact string `json:"revenueImpact"`
}

// ScheduleItem is one slot of a facility's day.
type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Who      string `json:"who"`
	Detail   string `json:"detail"`
}

// Role is a staff role at a facility.
type Role struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Required      bool   `json:"required"`
	Count         string `json:"count"`
	Qualification string `json:"qualification"`
	KeyTask       string `json:"keyTask"`
}

// OperationsStory describes how a facility runs day to day.
type OperationsStory struct {
	DailySchedule []ScheduleItem `json:"dailySchedule"`
	Roles         []Role         `json:"roles"`
}

// FacilityAnalysis is the analysis document of one service type.
type FacilityAnalysis struct {
	// Slug is the manifest key, e.g. "houkago-day".
	Slug               string             `json:"slug"`
	ServiceType        string             `json:"serviceType"`
	ServiceCode        string             `json:"serviceCode"`
	Category           rewards.Category   `json:"category,omitempty"`
	LastUpdated        string             `json:"lastUpdated"`
	Source             string             `json:"source"`
	EntityDistribution EntityDistribution `json:"entityDistribution"`
	OperatorScale      OperatorScale      `json:"operatorScale"`
	FacilityTimeSeries []YearCount        `json:"facilityTimeSeries"`
	UserTimeSeries     []YearCount        `json:"userTimeSeries"`
	RewardRevisions    []rewards.Revision `json:"rewardRevisions,omitempty"`
	Regional           *RegionalData      `json:"regional,omitempty"`
	FacilityPL         FacilityPL         `json:"facilityPL"`
	BonusCatalog       []BonusItem        `json:"bonusCatalog"`
	OperationsStory    OperationsStory    `json:"operationsStory"`
}

func yearCounts(ys []YearCount) []analytics.Point {
	return analytics.Series(ys,
		func(y YearCount) int { return y.Year },
		func(y YearCount) float64 { return float64(y.Count) })
}

// FacilitySeries returns the facility count per year.
func (f *FacilityAnalysis) FacilitySeries() []analytics.Point {
	return yearCounts(f.FacilityTimeSeries)
}

// UserSeries returns the user count per year.
func (f *FacilityAnalysis) UserSeries() []analytics.Point {
	return yearCounts(f.UserTimeSeries)
}

// RevisionEntry returns the service's entry for the cross-service timeline.
func (f *FacilityAnalysis) RevisionEntry() rewards.ServiceEntry {
	return rewards.ServiceEntry{
		ServiceType: f.ServiceType,
		ServiceSlug: f.Slug,
		Category:    f.Category,
		Revisions:   f.RewardRevisions,
	}
}

// =============================================================================
// VIEW
// =============================================================================

// GrowthYear is one point of the growth chart with its overlay event.
type GrowthYear struct {
	Year       int               `json:"year"`
	Facilities int               `json:"facilities"`
	Users      int               `json:"users"`
	Growth     *float64          `json:"growth"`
	Revision   *rewards.Revision `json:"revision,omitempty"`
}

// FacilityKPIs are the headline figures of a service.
type FacilityKPIs struct {
	LatestYear       int                 `json:"latest_year"`
	Facilities       *float64            `json:"facilities"`
	PrevFacilities   *float64            `json:"prev_facilities"`
	FacilityGrowth   *float64            `json:"facility_growth"`
	Direction        analytics.Direction `json:"direction"`
	Users            *float64            `json:"users"`
	UserGrowth       *float64            `json:"user_growth"`
	ProfitMargin     float64             `json:"profit_margin"`
	FacilitySpark    []float64           `json:"facility_spark"`
	UserSpark        []float64           `json:"user_spark"`
	FacilitiesFormat string              `json:"facilities_format"`
}

// RegionalView is the derived prefecture breakdown.
type RegionalView struct {
	TotalFacilities int                     `json:"total_facilities"`
	PrefectureCount int                     `json:"prefecture_count"`
	Concentration   analytics.Concentration `json:"concentration"`
	Top10           []analytics.Share       `json:"top10"`
	ByRegion        []analytics.Share       `json:"by_region"`
	Table           []analytics.Share       `json:"table"`
	Source          string                  `json:"source,omitempty"`
}

// FacilityDetail is the view model of a service detail page.
type FacilityDetail struct {
	Slug          string                               `json:"slug"`
	ServiceType   string                               `json:"service_type"`
	ServiceCode   string                               `json:"service_code"`
	Color         string                               `json:"color"`
	LastUpdated   string                               `json:"last_updated"`
	Source        string                               `json:"source"`
	KPIs          FacilityKPIs                         `json:"kpis"`
	Entities      []analytics.Share                    `json:"entities"`
	EntityTotal   int                                  `json:"entity_total"`
	OperatorScale []analytics.Share                    `json:"operator_scale"`
	Growth        []GrowthYear                         `json:"growth"`
	Markers       []analytics.Marker[rewards.Revision] `json:"markers"`
	Regional      *RegionalView                        `json:"regional,omitempty"`
	PL            FacilityPL                           `json:"pl"`
	Bonuses       []BonusItem                          `json:"bonuses"`
}

// FacilityView derives the detail view of one service.
func FacilityView(f *FacilityAnalysis) FacilityDetail {
	facilities := f.FacilitySeries()
	users := f.UserSeries()

	d := FacilityDetail{
		Slug:        f.Slug,
		ServiceType: f.ServiceType,
		ServiceCode: f.ServiceCode,
		Color:       ServiceColor(f.ServiceType),
		LastUpdated: f.LastUpdated,
		Source:      f.Source,
		KPIs:        facilityKPIs(f, facilities, users),
		PL:          f.FacilityPL,
		Bonuses:     f.BonusCatalog,
	}

	entities := make([]analytics.Count, len(f.EntityDistribution.ByEntityType))
	for i, e := range f.EntityDistribution.ByEntityType {
		entities[i] = analytics.Count{Label: e.Type, Count: e.Count}
	}
	d.EntityTotal = f.EntityDistribution.Total
	if d.EntityTotal <= 0 {
		d.EntityTotal = analytics.SumCounts(entities)
	}
	d.Entities = analytics.Shares(entities, d.EntityTotal)

	scale := make([]analytics.Count, len(f.OperatorScale.Buckets))
	for i, b := range f.OperatorScale.Buckets {
		scale[i] = analytics.Count{Label: b.Label, Count: b.Count}
	}
	d.OperatorScale = analytics.Shares(scale, analytics.SumCounts(scale))

	ov := analytics.NewOverlay(facilities, f.RewardRevisions, rewards.YearOf)
	userCounts := analytics.JoinByYear(facilities, users)
	growth := analytics.GrowthSeries(facilities)
	d.Growth = make([]GrowthYear, len(facilities))
	for i, p := range facilities {
		tip := ov.Tooltip(p.Year)
		d.Growth[i] = GrowthYear{
			Year:       p.Year,
			Facilities: int(p.Value),
			Users:      int(userCounts[i]),
			Growth:     growth[i],
			Revision:   tip.Event,
		}
	}
	d.Markers = ov.Markers()

	if f.Regional != nil {
		rv := Regional(f.Regional)
		d.Regional = &rv
	}
	return d
}

func facilityKPIs(f *FacilityAnalysis, facilities, users []analytics.Point) FacilityKPIs {
	k := FacilityKPIs{
		FacilityGrowth:   analytics.Growth(facilities),
		UserGrowth:       analytics.Growth(users),
		ProfitMargin:     f.FacilityPL.ProfitMargin,
		FacilitySpark:    analytics.Sparkline(facilities),
		UserSpark:        analytics.Sparkline(users),
		FacilitiesFormat: analytics.Dash,
	}
	k.Direction = analytics.ClassifyGrowth(k.FacilityGrowth)
	if p, ok := analytics.Latest(facilities); ok {
		v := p.Value
		k.LatestYear = p.Year
		k.Facilities = &v
		k.FacilitiesFormat = analytics.FormatNumber(v)
	}
	if len(facilities) >= 2 {
		v := facilities[len(facilities)-2].Value
		k.PrevFacilities = &v
	}
	if p, ok := analytics.Latest(users); ok {
		v := p.Value
		k.Users = &v
	}
	return k
}

// Regional derives concentration, top 10, region totals and the flat table
// from one prefecture list.
func Regional(r *RegionalData) RegionalView {
	counts := make([]analytics.Count, len(r.ByPrefecture))
	for i, p := range r.ByPrefecture {
		counts[i] = analytics.Count{Label: p.Name, Count: p.Count}
	}
	total := r.TotalFacilities
	if total <= 0 {
		total = analytics.SumCounts(counts)
	}

	var regionOrder []string
	regionTotals := make(map[string]int)
	for _, p := range r.ByPrefecture {
		if _, ok := regionTotals[p.Region]; !ok {
			regionOrder = append(regionOrder, p.Region)
		}
		regionTotals[p.Region] += p.Count
	}
	regions := make([]analytics.Count, len(regionOrder))
	for i, name := range regionOrder {
		regions[i] = analytics.Count{Label: name, Count: regionTotals[name]}
	}

	table := analytics.RankedShares(counts, total)
	top10 := table
	if len(top10) > 10 {
		top10 = top10[:10]
	}
	return RegionalView{
		TotalFacilities: total,
		PrefectureCount: len(r.ByPrefecture),
		Concentration:   analytics.Concentrate(counts, total),
		Top10:           top10,
		ByRegion:        analytics.RankedShares(regions, total),
		Table:           table,
		Source:          r.Source,
	}
}

// GrowthTooltip is one year of the growth chart. Value is the facility
// count; the user count is joined by year.
type GrowthTooltip struct {
	analytics.Tooltip[rewards.Revision]
	Users    float64 `json:"users"`
	HasUsers bool    `json:"has_users"`
}

// FacilityTooltip returns the merged tooltip of one year of the growth chart.
func FacilityTooltip(f *FacilityAnalysis, year int) GrowthTooltip {
	ov := analytics.NewOverlay(f.FacilitySeries(), f.RewardRevisions, rewards.YearOf)
	tip := GrowthTooltip{Tooltip: ov.Tooltip(year)}
	for _, p := range f.UserSeries() {
		if p.Year == year {
			tip.Users = p.Value
			tip.HasUsers = true
			break
		}
	}
	return tip
}
