/*
sorting.go - Column sort state for table views

PURPOSE:
  Table views let the user click a column header to sort. Clicking the
  active column flips the direction; clicking another column switches to
  it ascending. Sorting is always stable, so toggling
  category -> name -> category restores the original category order.
*/
package analytics

import (
	"sort"
	"strings"
)

// SortDir is the direction of a column sort.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// ParseSortDir accepts "asc"/"desc" case-insensitively. Anything else is Asc.
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// SortState is the current column and direction of a table.
type SortState struct {
	Key string  `json:"key"`
	Dir SortDir `json:"dir"`
}

// Toggle returns the state after a click on key.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Dir == Asc {
			return SortState{Key: key, Dir: Desc}
		}
		return SortState{Key: key, Dir: Asc}
	}
	return SortState{Key: key, Dir: Asc}
}

// Less is a strict ordering on two rows.
type Less[T any] func(a, b T) bool

// Missing reports rows with no value in the sorted column.
type Missing[T any] func(T) bool

// SortStable returns a sorted copy of items. Desc reverses less but equal
// elements still keep their input order.
func SortStable[T any](items []T, less Less[T], dir SortDir) []T {
	return SortStableMissingLast(items, less, nil, dir)
}

// SortStableMissingLast is SortStable with rows reported by missing placed
// after every present row in both directions. less only ever sees present
// rows. A nil missing treats every row as present.
func SortStableMissingLast[T any](items []T, less Less[T], missing Missing[T], dir SortDir) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if missing != nil {
			mi, mj := missing(out[i]), missing(out[j])
			if mi || mj {
				return !mi && mj
			}
		}
		if dir == Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// SortNullable sorts optional values by dir with nil after every present
// value.
func SortNullable(values []*float64, dir SortDir) []*float64 {
	return SortStableMissingLast(values,
		func(a, b *float64) bool { return *a < *b },
		func(v *float64) bool { return v == nil },
		dir)
}
