/*
growth.go - Year-over-year growth derivation

PURPOSE:
  One pure function answers "how much did this grow since last period?"
  for every series on the dashboard: disability population, facility
  totals, employment, company revenue.

RULES:
  - Growth is computed between the LAST two elements of the series.
    The series is not re-sorted; callers own the ordering.
  - Fewer than two points: no figure (nil).
  - Previous value of zero: no figure (nil). Never +Inf, -Inf or NaN.

  (last - prev) / prev * 100

EXAMPLE:
  g := analytics.Growth([]analytics.Point{{2022, 100}, {2023, 110}})
  // *g == 10
  analytics.ClassifyGrowth(g) // DirectionUp

SEE ALSO:
  - format.go: FormatGrowth renders nil as the dash placeholder
*/
package analytics

import "math"

// YoY returns the percentage change from previous to current.
// Returns nil when previous is zero or either value is not finite.
func YoY(current, previous float64) *float64 {
	if previous == 0 || !finite(current) || !finite(previous) {
		return nil
	}
	pct := (current - previous) / previous * 100
	if !finite(pct) {
		return nil
	}
	return &pct
}

// Growth returns the YoY change between the final two points of a series.
func Growth(series []Point) *float64 {
	if len(series) < 2 {
		return nil
	}
	last := series[len(series)-1]
	prev := series[len(series)-2]
	return YoY(last.Value, prev.Value)
}

// GrowthSeries returns the YoY figure for every point against its
// predecessor. The first element is always nil.
func GrowthSeries(series []Point) []*float64 {
	out := make([]*float64, len(series))
	for i := 1; i < len(series); i++ {
		out[i] = YoY(series[i].Value, series[i-1].Value)
	}
	return out
}

// ClassifyGrowth maps a growth figure to its display direction.
func ClassifyGrowth(g *float64) Direction {
	switch {
	case g == nil:
		return DirectionNone
	case *g > 0:
		return DirectionUp
	case *g < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// Latest returns the last point of a series.
func Latest(series []Point) (Point, bool) {
	if len(series) == 0 {
		return Point{}, false
	}
	return series[len(series)-1], true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
