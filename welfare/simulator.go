/*
simulator.go - Business plan P&L simulator

PURPOSE:
  Answers "what happens to operating profit if revenue drops 10% and
  personnel costs rise 5%?" for a company's monthly business plan.

  1. Extract annual base values from the plan rows:
       revenue      row whose label contains 売上高 (monetary, bold)
       cogs         売上原価
       personnel    人件費
       advertising  広告宣伝費
       other SG&A   その他管理費 or システム開発費
     A row's annual value is its "annual" field, else the sum of months.
  2. Apply percentage adjustments to each base value.
  3. operating profit = revenue - cogs - (personnel + advertising + other)

  Parameters whose base value is zero are not adjustable. A plan without
  revenue cannot be simulated (ErrNoRevenue).

PRESETS:
  optimistic:  revenue +10%, every cost -5%
  pessimistic: revenue -10%, every cost +10%

ARITHMETIC:
  decimal.Decimal throughout. Margins are float64 percentages.
*/
package welfare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// Simulator parameter ids.
const (
	ParamRevenue     = "revenue"
	ParamCOGS        = "cogs"
	ParamPersonnel   = "personnel"
	ParamAdvertising = "advertising"
	ParamOtherSGA    = "other_sga"
)

// Preset names.
const (
	PresetBase        = "base"
	PresetOptimistic  = "optimistic"
	PresetPessimistic = "pessimistic"
)

// SimParam is one adjustable line of the plan.
type SimParam struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	BaseValue decimal.Decimal `json:"base_value"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	Step      float64         `json:"step"`
	IsRevenue bool            `json:"is_revenue"`
	Applied   float64         `json:"applied"`
}

// Adjustments maps parameter id to a percentage change.
type Adjustments map[string]float64

// PresetAdjustments returns the adjustments of a named preset for params.
func PresetAdjustments(preset string, params []SimParam) (Adjustments, error) {
	var revenue, cost float64
	switch preset {
	case PresetBase, "":
	case PresetOptimistic:
		revenue, cost = 10, -5
	case PresetPessimistic:
		revenue, cost = -10, 10
	default:
		return nil, &analytics.InputError{Field: "preset", Value: preset, Reason: "unknown preset"}
	}
	adj := make(Adjustments, len(params))
	for _, p := range params {
		if p.IsRevenue {
			adj[p.ID] = revenue
		} else {
			adj[p.ID] = cost
		}
	}
	return adj, nil
}

// =============================================================================
// RESULT
// =============================================================================

// PLResult is one computed P&L.
type PLResult struct {
	Revenue         decimal.Decimal `json:"revenue"`
	COGS            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Personnel       decimal.Decimal `json:"personnel"`
	Advertising     decimal.Decimal `json:"advertising"`
	OtherSGA        decimal.Decimal `json:"other_sga"`
	TotalSGA        decimal.Decimal `json:"total_sga"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`
	OperatingMargin float64         `json:"operating_margin"`
}

// PlanSummary is the headline of the plan as published.
type PlanSummary struct {
	AnnualRevenue decimal.Decimal `json:"annual_revenue"`
	AnnualProfit  decimal.Decimal `json:"annual_profit"`
	ProfitMargin  float64         `json:"profit_margin"`
	// BreakEvenMonth is 1-based; 0 when the plan never turns a profit.
	BreakEvenMonth int    `json:"break_even_month"`
	BreakEvenLabel string `json:"break_even_label"`
}

// Simulation is the simulator output.
type Simulation struct {
	CompanyID string          `json:"company_id"`
	Params    []SimParam      `json:"params"`
	Base      PLResult        `json:"base"`
	Adjusted  PLResult        `json:"adjusted"`
	Delta     decimal.Decimal `json:"delta"`
	// MarginDelta is the change of operating margin in points.
	MarginDelta float64     `json:"margin_delta"`
	Summary     PlanSummary `json:"summary"`
}

// =============================================================================
// SIMULATION
// =============================================================================

type rowMatcher func(PlanRow) bool

func findRow(plan *CompanyBusinessPlan, match rowMatcher) (PlanRow, bool) {
	for _, s := range plan.Sections {
		for _, r := range s.Rows {
			if match(r) {
				return r, true
			}
		}
	}
	return PlanRow{}, false
}

func annual(row PlanRow, ok bool) decimal.Decimal {
	if !ok {
		return decimal.Zero
	}
	if row.Annual.Valid {
		return row.Annual.Decimal
	}
	sum := decimal.Zero
	for _, v := range row.Values {
		sum = sum.Add(v)
	}
	return sum
}

func labelIs(labels ...string) rowMatcher {
	return func(r PlanRow) bool {
		if !r.IsMonetary {
			return false
		}
		for _, l := range labels {
			if r.Label == l {
				return true
			}
		}
		return false
	}
}

func isRevenueRow(r PlanRow) bool {
	return strings.Contains(r.Label, "売上高") && r.IsMonetary && r.IsBold
}

// SimulationParams extracts the adjustable lines of a plan.
func SimulationParams(plan *CompanyBusinessPlan) ([]SimParam, error) {
	revenue := annual(findRow(plan, isRevenueRow))
	if !revenue.IsPositive() {
		return nil, ErrNoRevenue
	}
	all := []SimParam{
		{ID: ParamRevenue, Label: "売上高", BaseValue: revenue, Min: -30, Max: 30, Step: 1, IsRevenue: true},
		{ID: ParamCOGS, Label: "売上原価", BaseValue: annual(findRow(plan, labelIs("売上原価"))), Min: -30, Max: 30, Step: 1},
		{ID: ParamPersonnel, Label: "人件費", BaseValue: annual(findRow(plan, labelIs("人件費"))), Min: -30, Max: 30, Step: 1},
		{ID: ParamAdvertising, Label: "広告宣伝費", BaseValue: annual(findRow(plan, labelIs("広告宣伝費"))), Min: -50, Max: 50, Step: 5},
		{ID: ParamOtherSGA, Label: "その他販管費", BaseValue: annual(findRow(plan, labelIs("その他管理費", "システム開発費"))), Min: -30, Max: 30, Step: 1},
	}
	params := make([]SimParam, 0, len(all))
	for _, p := range all {
		if p.BaseValue.IsPositive() {
			params = append(params, p)
		}
	}
	return params, nil
}

// Simulate applies adj to the plan. Adjustments outside a parameter's range
// are rejected; unknown ids are ignored.
func Simulate(plan *CompanyBusinessPlan, adj Adjustments) (Simulation, error) {
	params, err := SimulationParams(plan)
	if err != nil {
		return Simulation{}, fmt.Errorf("simulate %s: %w", plan.CompanyID, err)
	}

	base := make(map[string]decimal.Decimal, len(params))
	adjusted := make(map[string]decimal.Decimal, len(params))
	for i, p := range params {
		pct := adj[p.ID]
		if pct < p.Min || pct > p.Max {
			return Simulation{}, &analytics.InputError{
				Field:  p.ID,
				Value:  fmt.Sprintf("%g", pct),
				Reason: fmt.Sprintf("must be between %g and %g", p.Min, p.Max),
			}
		}
		params[i].Applied = pct
		base[p.ID] = p.BaseValue
		factor := decimal.NewFromFloat(1 + pct/100)
		adjusted[p.ID] = p.BaseValue.Mul(factor)
	}

	sim := Simulation{
		CompanyID: plan.CompanyID,
		Params:    params,
		Base:      computePL(base),
		Adjusted:  computePL(adjusted),
		Summary:   Summarize(plan),
	}
	sim.Delta = sim.Adjusted.OperatingProfit.Sub(sim.Base.OperatingProfit)
	sim.MarginDelta = sim.Adjusted.OperatingMargin - sim.Base.OperatingMargin
	return sim, nil
}

func computePL(v map[string]decimal.Decimal) PLResult {
	r := PLResult{
		Revenue:     v[ParamRevenue],
		COGS:        v[ParamCOGS],
		Personnel:   v[ParamPersonnel],
		Advertising: v[ParamAdvertising],
		OtherSGA:    v[ParamOtherSGA],
	}
	r.GrossProfit = r.Revenue.Sub(r.COGS)
	r.TotalSGA = r.Personnel.Add(r.Advertising).Add(r.OtherSGA)
	r.OperatingProfit = r.GrossProfit.Sub(r.TotalSGA)
	if r.Revenue.IsPositive() {
		r.OperatingMargin = r.OperatingProfit.Div(r.Revenue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return r
}

// Summarize reads the published headline figures of a plan. The
// break-even month is the first month whose operating profit is positive.
func Summarize(plan *CompanyBusinessPlan) PlanSummary {
	s := PlanSummary{BreakEvenLabel: analytics.Dash}
	for _, sec := range plan.Sections {
		for _, r := range sec.Rows {
			if isRevenueRow(r) && r.Annual.Valid && !r.Annual.Decimal.IsZero() && s.AnnualRevenue.IsZero() {
				s.AnnualRevenue = r.Annual.Decimal
			}
			isProfitRow := strings.Contains(r.Label, "営業利益") && r.IsMonetary && r.IsBold
			if isProfitRow && r.Annual.Valid {
				s.AnnualProfit = r.Annual.Decimal
			}
			if strings.Contains(r.Label, "営業利益率") && r.IsPercent && r.Annual.Valid {
				s.ProfitMargin = r.Annual.Decimal.InexactFloat64()
			}
			if isProfitRow && s.BreakEvenMonth == 0 {
				for i, v := range r.Values {
					if v.IsPositive() {
						s.BreakEvenMonth = i + 1
						s.BreakEvenLabel = fmt.Sprintf("%d月", i+1)
						break
					}
				}
			}
		}
	}
	return s
}

// SimulateCompany looks up the company's plan and simulates it.
func SimulateCompany(c *Catalog, id string, adj Adjustments) (Simulation, error) {
	if _, err := c.Company(id); err != nil {
		return Simulation{}, err
	}
	plan, err := c.BusinessPlan(id)
	if err != nil {
		return Simulation{}, err
	}
	return Simulate(plan, adj)
}

// SimulateCompanyPreset simulates a named preset.
func SimulateCompanyPreset(c *Catalog, id, preset string) (Simulation, error) {
	if _, err := c.Company(id); err != nil {
		return Simulation{}, err
	}
	plan, err := c.BusinessPlan(id)
	if err != nil {
		return Simulation{}, err
	}
	params, err := SimulationParams(plan)
	if err != nil {
		return Simulation{}, fmt.Errorf("simulate %s: %w", id, err)
	}
	adj, err := PresetAdjustments(preset, params)
	if err != nil {
		return Simulation{}, err
	}
	return Simulate(plan, adj)
}
