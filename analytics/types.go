/*
Package analytics provides the domain-agnostic derivation engine.

PURPOSE:
  Every chart and table on the dashboard is a view over static, immutable
  data. The numbers those views show (growth rates, shares, rankings,
  overlays) are derived here, once, so that two views of the same
  collection can never disagree.

KEY CONCEPTS IN THIS FILE (types.go):
  - Point:     one value of a year-indexed series
  - Count:     one labelled count of a distribution
  - Share:     a Count plus its percentage of the total
  - Direction: gain / loss / neutral classification of a growth figure

DESIGN PRINCIPLES:
  1. Totality: no function in this package panics or returns an error
     over well-formed input. Missing figures are nil, not NaN or Inf.
  2. Immutability: inputs are never reordered in place. Sorting works on
     copies.
  3. No domain knowledge: the package knows nothing about companies,
     facilities or reward revisions.

SEE ALSO:
  - growth.go: YoY / growth derivation
  - concentration.go: share and top-N derivation
  - overlay.go: sparse event overlay on dense series
*/
package analytics

// =============================================================================
// SERIES
// =============================================================================

// Point is one element of a year-indexed series.
// Series are expected to be ordered ascending by Year.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series builds points from parallel accessors over any slice.
func Series[T any](items []T, year func(T) int, value func(T) float64) []Point {
	out := make([]Point, len(items))
	for i, it := range items {
		out[i] = Point{Year: year(it), Value: value(it)}
	}
	return out
}

// Values returns the values of a series in order.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

// Years returns the years of a series in order.
func Years(points []Point) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Year
	}
	return out
}

// =============================================================================
// DISTRIBUTIONS
// =============================================================================

// Count is one labelled bucket of a distribution.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Share is a Count with its percentage of the distribution total.
type Share struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
	Rank  int     `json:"rank"`
}

// =============================================================================
// DIRECTION
// =============================================================================

// Direction classifies a growth figure for styling.
type Direction string

const (
	DirectionUp   Direction = "up"   // rendered as a gain
	DirectionDown Direction = "down" // rendered as a loss
	DirectionFlat Direction = "flat" // exactly zero
	DirectionNone Direction = "none" // no figure available
)

// Tone returns the styling tone the front-end maps to colors.
func (d Direction) Tone() string {
	switch d {
	case DirectionUp:
		return "gain"
	case DirectionDown:
		return "loss"
	default:
		return "neutral"
	}
}
