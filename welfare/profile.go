package welfare

import (
	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
)

// FinancialPoint is one fiscal year with its YoY figures.
type FinancialPoint struct {
	FiscalYear
	RevenueYoY         *float64 `json:"revenueYoY"`
	OperatingProfitYoY *float64 `json:"operatingProfitYoY"`
}

// FinancialSeries is a company's financials ready for charting.
type FinancialSeries struct {
	CompanyID string           `json:"company_id"`
	Currency  string           `json:"currency"`
	Unit      string           `json:"unit"`
	Years     []FinancialPoint `json:"years"`
}

// Financials returns a company's fiscal years with per-year YoY. A company
// without financials yields an empty series.
func Financials(c *Catalog, id string) (FinancialSeries, error) {
	if _, err := c.Company(id); err != nil {
		return FinancialSeries{}, err
	}
	out := FinancialSeries{CompanyID: id, Years: []FinancialPoint{}}
	fin := c.Financials(id)
	if fin == nil {
		return out, nil
	}
	out.Currency, out.Unit = fin.Currency, fin.Unit

	revenue := RevenueSeries(fin)
	op := make([]analytics.Point, len(fin.FiscalYears))
	for i, fy := range fin.FiscalYears {
		op[i] = analytics.Point{Year: revenue[i].Year, Value: fy.OperatingProfit.InexactFloat64()}
	}
	revYoY := analytics.GrowthSeries(revenue)
	opYoY := analytics.GrowthSeries(op)
	for i, fy := range fin.FiscalYears {
		out.Years = append(out.Years, FinancialPoint{
			FiscalYear:         fy,
			RevenueYoY:         revYoY[i],
			OperatingProfitYoY: opYoY[i],
		})
	}
	return out, nil
}

// FinancialSummary is the latest-year headline of a company.
type FinancialSummary struct {
	Year            string              `json:"year"`
	Revenue         decimal.NullDecimal `json:"revenue"`
	RevenueDisplay  string              `json:"revenue_display"`
	OperatingProfit decimal.NullDecimal `json:"operating_profit"`
	OperatingMargin *float64            `json:"operating_margin"`
	RevenueYoY      *float64            `json:"revenue_yoy"`
	Direction       analytics.Direction `json:"direction"`
}

// Profile is the company detail page view model.
type Profile struct {
	Company       *Company              `json:"company"`
	CategoryLabel Label                 `json:"category_label"`
	ThreatLabel   Label                 `json:"threat_label"`
	PriorityLabel Label                 `json:"priority_label"`
	Color         string                `json:"color"`
	Favicon       Favicon               `json:"favicon"`
	Summary       FinancialSummary      `json:"summary"`
	LatestPlan    *MidTermPlan          `json:"latest_plan,omitempty"`
	Advantage     *CompetitiveAdvantage `json:"advantage,omitempty"`
	Research      *WebResearchData      `json:"research,omitempty"`
	HistoryCount  int                   `json:"history_count"`
	HasPlan       bool                  `json:"has_business_plan"`
}

// CompanyProfile builds the detail view of one company.
func CompanyProfile(c *Catalog, id string) (Profile, error) {
	co, err := c.Company(id)
	if err != nil {
		return Profile{}, err
	}
	p := Profile{
		Company:       co,
		CategoryLabel: CategoryLabel(co.Category),
		ThreatLabel:   ThreatLabel(co.ThreatLevel),
		PriorityLabel: PriorityLabel(co.PriorityRank),
		Color:         brandColor(co),
		Favicon:       NewFavicon(co),
		Advantage:     c.Advantage(id),
		Research:      c.Research(id),
		Summary: FinancialSummary{
			Year:           analytics.Dash,
			RevenueDisplay: analytics.Dash,
			Direction:      analytics.DirectionNone,
		},
	}
	fin := c.Financials(id)
	if latest, ok := fin.Latest(); ok {
		margin := latest.OperatingMargin
		p.Summary = FinancialSummary{
			Year:            latest.Year,
			Revenue:         decimal.NewNullDecimal(latest.Revenue),
			RevenueDisplay:  analytics.FormatRevenue(latest.Revenue),
			OperatingProfit: decimal.NewNullDecimal(latest.OperatingProfit),
			OperatingMargin: &margin,
			RevenueYoY:      RevenueYoY(fin),
		}
		p.Summary.Direction = analytics.ClassifyGrowth(p.Summary.RevenueYoY)
	}
	if plan, ok := c.Strategy(id).LatestPlan(); ok {
		p.LatestPlan = &plan
	}
	if h := c.History(id); h != nil {
		p.HistoryCount = len(h.Events)
	}
	_, planErr := c.BusinessPlan(id)
	p.HasPlan = planErr == nil
	return p, nil
}
