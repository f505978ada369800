/*
compare.go - Multi-select company comparison

PURPOSE:
  The comparison page lays several companies side by side: a financial
  table, a strategy matrix and a merged history timeline. Its inputs are
  an ordered selection of company ids and the Catalog.

RULES:
  - One row per selected id, in selection order. Duplicate ids collapse to
    the first occurrence.
  - A row is never dropped. An unknown id yields a row with a nil Company;
    a company without financials, strategy or history yields nil fields.
  - Below MinSelection ids the result is a placeholder with no rows. The
    minimum never drops below DefaultMinSelection.
  - Ids beyond MaxSelection are ignored and reported as Truncated.
  - Revenue YoY follows analytics.YoY: no figure when the previous
    revenue is zero.

SEE ALSO:
  - analytics/growth.go
  - api/presets.go: named selections
*/
package welfare

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
)

const (
	// DefaultMinSelection is the fewest companies a comparison renders.
	DefaultMinSelection = 2
	// DefaultMaxSelection is the most companies a comparison renders.
	DefaultMaxSelection = 4
)

// SelectMoreMessage is shown while fewer than min companies are selected.
func SelectMoreMessage(min int) string {
	return fmt.Sprintf("%d社以上を選択してください", min)
}

// CompareOptions bounds the selection size.
type CompareOptions struct {
	MinSelection int
	MaxSelection int
}

// Minimum is the effective gate: MinSelection, but never below
// DefaultMinSelection.
func (o CompareOptions) Minimum() int {
	return max(o.MinSelection, DefaultMinSelection)
}

// DefaultCompareOptions returns the dashboard's limits.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{MinSelection: DefaultMinSelection, MaxSelection: DefaultMaxSelection}
}

// FinancialRow is one company's column of the comparison table.
type FinancialRow struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Company         *Company            `json:"company"`
	Color           string              `json:"color"`
	Year            string              `json:"year"`
	Revenue         decimal.NullDecimal `json:"revenue"`
	OperatingProfit decimal.NullDecimal `json:"operating_profit"`
	NetIncome       decimal.NullDecimal `json:"net_income"`
	OperatingMargin *float64            `json:"operating_margin"`
	Employees       *int                `json:"employees"`
	Facilities      *int                `json:"facilities"`
	RevenueYoY      *float64            `json:"revenue_yoy"`
	Direction       analytics.Direction `json:"direction"`
	Display         RowDisplay          `json:"display"`
}

// RowDisplay holds the formatted cells of a FinancialRow.
type RowDisplay struct {
	Revenue         string `json:"revenue"`
	OperatingProfit string `json:"operating_profit"`
	NetIncome       string `json:"net_income"`
	OperatingMargin string `json:"operating_margin"`
	Employees       string `json:"employees"`
	Facilities      string `json:"facilities"`
	RevenueYoY      string `json:"revenue_yoy"`
}

// StrategyRow is one company's latest mid-term plan.
type StrategyRow struct {
	CompanyID     string        `json:"company_id"`
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	PlanName      string        `json:"plan_name,omitempty"`
	Period        string        `json:"period,omitempty"`
	KeyStrategies []KeyStrategy `json:"key_strategies"`
	Drivers       []Label       `json:"drivers"`
}

// TimelineEvent is a history event tagged with its company.
type TimelineEvent struct {
	HistoryEvent
	CompanyID     string `json:"companyId"`
	CompanyName   string `json:"companyName"`
	Color         string `json:"color"`
	CategoryLabel Label  `json:"categoryLabel"`
	When          string `json:"when"`
}

// Comparison is the comparison page view model.
type Comparison struct {
	Ready      bool            `json:"ready"`
	Message    string          `json:"message,omitempty"`
	Selected   []string        `json:"selected"`
	Truncated  []string        `json:"truncated,omitempty"`
	Financials []FinancialRow  `json:"financials"`
	Strategies []StrategyRow   `json:"strategies"`
	Timeline   []TimelineEvent `json:"timeline"`
}

// NormalizeSelection removes empty and duplicate ids, keeping first
// occurrences, and splits off ids beyond max.
func NormalizeSelection(ids []string, max int) (kept, truncated []string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if max > 0 && len(kept) >= max {
			truncated = append(truncated, id)
			continue
		}
		kept = append(kept, id)
	}
	return kept, truncated
}

// Compare builds the comparison of the selected companies.
func Compare(c *Catalog, ids []string, opts CompareOptions) Comparison {
	min := opts.Minimum()
	selected, truncated := NormalizeSelection(ids, opts.MaxSelection)

	out := Comparison{
		Selected:   selected,
		Truncated:  truncated,
		Financials: []FinancialRow{},
		Strategies: []StrategyRow{},
		Timeline:   []TimelineEvent{},
	}
	if len(selected) < min {
		out.Message = SelectMoreMessage(min)
		return out
	}
	out.Ready = true

	for i, id := range selected {
		co, _ := c.Company(id)
		color := rowColor(co, i)
		out.Financials = append(out.Financials, financialRow(c, id, co, color))
		if sr, ok := strategyRow(c, id, co, color); ok {
			out.Strategies = append(out.Strategies, sr)
		}
		out.Timeline = append(out.Timeline, timelineEvents(c, id, co, color)...)
	}
	sortTimeline(out.Timeline)
	return out
}

func rowColor(co *Company, idx int) string {
	if co != nil && co.BrandColor != "" {
		return co.BrandColor
	}
	if co != nil {
		if col, ok := CompanyColors[co.ID]; ok {
			return col
		}
	}
	return SeriesPalette[idx%len(SeriesPalette)]
}

func displayName(id string, co *Company) string {
	if co == nil {
		return analytics.Dash
	}
	return co.Name
}

func financialRow(c *Catalog, id string, co *Company, color string) FinancialRow {
	row := FinancialRow{
		ID:        id,
		Name:      displayName(id, co),
		Company:   co,
		Color:     color,
		Year:      analytics.Dash,
		Direction: analytics.DirectionNone,
	}
	fin := c.Financials(id)
	if latest, ok := fin.Latest(); ok {
		row.Year = latest.Year
		row.Revenue = decimal.NewNullDecimal(latest.Revenue)
		row.OperatingProfit = decimal.NewNullDecimal(latest.OperatingProfit)
		row.NetIncome = decimal.NewNullDecimal(latest.NetIncome)
		margin := latest.OperatingMargin
		row.OperatingMargin = &margin
		row.Employees = latest.Employees
		row.Facilities = latest.Facilities
		if prev, ok := fin.Previous(); ok {
			row.RevenueYoY = analytics.YoY(latest.Revenue.InexactFloat64(), prev.Revenue.InexactFloat64())
		}
		row.Direction = analytics.ClassifyGrowth(row.RevenueYoY)
	}
	row.Display = RowDisplay{
		Revenue:         analytics.FormatOptionalRevenue(row.Revenue),
		OperatingProfit: analytics.FormatOptionalRevenue(row.OperatingProfit),
		NetIncome:       analytics.FormatOptionalRevenue(row.NetIncome),
		OperatingMargin: analytics.FormatOptionalPercent(row.OperatingMargin),
		Employees:       formatOptionalInt(row.Employees),
		Facilities:      formatOptionalInt(row.Facilities),
		RevenueYoY:      analytics.FormatGrowth(row.RevenueYoY),
	}
	return row
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return analytics.Dash
	}
	return analytics.FormatNumber(float64(*v))
}

func strategyRow(c *Catalog, id string, co *Company, color string) (StrategyRow, bool) {
	plan, ok := c.Strategy(id).LatestPlan()
	if !ok {
		return StrategyRow{}, false
	}
	row := StrategyRow{
		CompanyID:     id,
		Name:          displayName(id, co),
		Color:         color,
		PlanName:      plan.Name,
		Period:        plan.Period,
		KeyStrategies: plan.KeyStrategies,
	}
	for _, ks := range plan.KeyStrategies {
		row.Drivers = append(row.Drivers, GrowthDriverLabel(ks.GrowthDriver))
	}
	return row, true
}

func timelineEvents(c *Catalog, id string, co *Company, color string) []TimelineEvent {
	h := c.History(id)
	if h == nil {
		return nil
	}
	out := make([]TimelineEvent, len(h.Events))
	for i, e := range h.Events {
		out[i] = TimelineEvent{
			HistoryEvent:  e,
			CompanyID:     id,
			CompanyName:   displayName(id, co),
			Color:         color,
			CategoryLabel: HistoryLabel(e.Category),
			When:          analytics.FormatYearMonth(e.Year, e.Month),
		}
	}
	return out
}

// sortTimeline orders by year, then month (unknown month first).
func sortTimeline(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Year != events[j].Year {
			return events[i].Year < events[j].Year
		}
		return events[i].Month < events[j].Month
	})
}

// CompanyTimeline returns one company's events in chronological order.
func CompanyTimeline(c *Catalog, id string) ([]TimelineEvent, error) {
	co, err := c.Company(id)
	if err != nil {
		return nil, err
	}
	events := timelineEvents(c, id, co, brandColor(co))
	if events == nil {
		events = []TimelineEvent{}
	}
	sortTimeline(events)
	return events, nil
}
