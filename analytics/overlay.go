/*
overlay.go - Sparse event overlay on a dense yearly series

PURPOSE:
  A growth chart plots one value per year. A handful of those years also
  carry an event (a reward revision, a law change). The overlay joins the
  two at response time without mutating either source.

MODEL:
  series:  2018 2019 2020 2021 2022 2023 2024   (dense)
  events:            2020           2024 2027   (sparse)
  markers:           2020           2024        (years present in series)

  2027 stays in the lookup (so a direct query for it still resolves) but
  produces no marker.

USAGE:
  ov := analytics.NewOverlay(points, events, func(e Rev) int { return e.Year })
  tip := ov.Tooltip(2020) // value + event
*/
package analytics

// Overlay joins a dense series with sparse events keyed by year.
type Overlay[E any] struct {
	series []Point
	byYear map[int]Point
	events map[int]E
}

// Tooltip is the merged view of one year.
type Tooltip[E any] struct {
	Year     int     `json:"year"`
	Value    float64 `json:"value"`
	HasValue bool    `json:"has_value"`
	Event    *E      `json:"event,omitempty"`
}

// Marker is one event positioned on the series.
type Marker[E any] struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	Event E       `json:"event"`
}

// NewOverlay builds the year lookups. When two events share a year the
// first one wins.
func NewOverlay[E any](series []Point, events []E, yearOf func(E) int) *Overlay[E] {
	ov := &Overlay[E]{
		series: series,
		byYear: make(map[int]Point, len(series)),
		events: make(map[int]E, len(events)),
	}
	for _, p := range series {
		if _, ok := ov.byYear[p.Year]; !ok {
			ov.byYear[p.Year] = p
		}
	}
	for _, e := range events {
		y := yearOf(e)
		if _, ok := ov.events[y]; !ok {
			ov.events[y] = e
		}
	}
	return ov
}

// EventAt returns the event recorded for year, if any.
func (o *Overlay[E]) EventAt(year int) (E, bool) {
	e, ok := o.events[year]
	return e, ok
}

// Tooltip merges the series value and event for year.
func (o *Overlay[E]) Tooltip(year int) Tooltip[E] {
	t := Tooltip[E]{Year: year}
	if p, ok := o.byYear[year]; ok {
		t.Value = p.Value
		t.HasValue = true
	}
	if e, ok := o.events[year]; ok {
		ev := e
		t.Event = &ev
	}
	return t
}

// Markers returns one marker per event whose year is in the series,
// in series order.
func (o *Overlay[E]) Markers() []Marker[E] {
	var out []Marker[E]
	for _, p := range o.series {
		if e, ok := o.events[p.Year]; ok {
			out = append(out, Marker[E]{Year: p.Year, Value: p.Value, Event: e})
		}
	}
	return out
}

// Tooltips returns a tooltip for every year of the series.
func (o *Overlay[E]) Tooltips() []Tooltip[E] {
	out := make([]Tooltip[E], len(o.series))
	for i, p := range o.series {
		out[i] = o.Tooltip(p.Year)
	}
	return out
}

// JoinByYear aligns a secondary series to the years of the primary one.
// Years missing from the secondary series yield 0.
func JoinByYear(primary, secondary []Point) []float64 {
	lookup := make(map[int]float64, len(secondary))
	for _, p := range secondary {
		lookup[p.Year] = p.Value
	}
	out := make([]float64, len(primary))
	for i, p := range primary {
		out[i] = lookup[p.Year]
	}
	return out
}
