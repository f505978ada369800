package analytics

// Sparkline returns the values of a series scaled into [0, 1] for a
// mini chart. A flat series maps to 0.5 everywhere.
func Sparkline(series []Point) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	lo, hi := series[0].Value, series[0].Value
	for _, p := range series[1:] {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	span := hi - lo
	for i, p := range series {
		if span == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = (p.Value - lo) / span
	}
	return out
}

// Tail returns the last n points of a series.
func Tail(series []Point, n int) []Point {
	if n <= 0 {
		return nil
	}
	if n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}
