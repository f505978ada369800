/*
concentration.go - Share and top-N concentration derivation

PURPOSE:
  Computes each bucket's share of a total and the cumulative share held by
  the N largest buckets (e.g. "the top 3 prefectures hold 31% of all
  facilities").

SINGLE SOURCE OF TRUTH:
  The bar ranking and the flat table of the same distribution are both
  built from the []Share returned by Shares. Never recompute percentages
  downstream.

ORDERING:
  Top-N uses a stable descending sort by count. Ties keep the order in
  which they arrived.
*/
package analytics

import "sort"

// ConcentrationLevels are the top-N cut-offs reported for every distribution.
var ConcentrationLevels = []int{3, 5, 10}

// Concentration holds the cumulative shares of the largest buckets.
type Concentration struct {
	Total      int     `json:"total"`
	Top3Share  float64 `json:"top3_share"`
	Top5Share  float64 `json:"top5_share"`
	Top10Share float64 `json:"top10_share"`
}

// SumCounts returns the sum of all counts.
func SumCounts(counts []Count) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// ShareOf returns count as a percentage of total. Zero total yields zero.
func ShareOf(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// RankDescending returns a copy of counts ordered by count, largest first.
// Equal counts keep their input order.
func RankDescending(counts []Count) []Count {
	ranked := make([]Count, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Shares returns every bucket with its share of total, in input order.
// Rank is the 1-based position in the descending ranking.
func Shares(counts []Count, total int) []Share {
	ranks := make(map[int]int, len(counts))
	idx := make([]int, len(counts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return counts[idx[a]].Count > counts[idx[b]].Count
	})
	for pos, i := range idx {
		ranks[i] = pos + 1
	}

	out := make([]Share, len(counts))
	for i, c := range counts {
		out[i] = Share{
			Label: c.Label,
			Count: c.Count,
			Share: ShareOf(c.Count, total),
			Rank:  ranks[i],
		}
	}
	return out
}

// RankedShares returns the shares ordered by rank.
func RankedShares(counts []Count, total int) []Share {
	shares := Shares(counts, total)
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Rank < shares[j].Rank
	})
	return shares
}

// TopShare returns the cumulative share of the n largest buckets.
// If n exceeds the number of buckets, all buckets are summed.
func TopShare(counts []Count, total, n int) float64 {
	if n <= 0 {
		return 0
	}
	ranked := RankDescending(counts)
	if n > len(ranked) {
		n = len(ranked)
	}
	sum := 0
	for _, c := range ranked[:n] {
		sum += c.Count
	}
	return ShareOf(sum, total)
}

// Concentrate computes top-3/5/10 shares against total.
// A non-positive total falls back to the sum of counts.
func Concentrate(counts []Count, total int) Concentration {
	if total <= 0 {
		total = SumCounts(counts)
	}
	return Concentration{
		Total:      total,
		Top3Share:  TopShare(counts, total, 3),
		Top5Share:  TopShare(counts, total, 5),
		Top10Share: TopShare(counts, total, 10),
	}
}

// Top returns the n largest buckets as shares, ranked.
func Top(counts []Count, total, n int) []Share {
	ranked := RankedShares(counts, total)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
