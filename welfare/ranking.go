package welfare

import (
	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
)

// DefaultRankingExclude is the analyst's own company, left out of the
// competitor ranking.
var DefaultRankingExclude = []string{"sms"}

// RankingRow is one company of the revenue ranking.
type RankingRow struct {
	Rank            int                 `json:"rank"`
	CompanyID       string              `json:"company_id"`
	Name            string              `json:"name"`
	Color           string              `json:"color"`
	Year            string              `json:"year"`
	Revenue         decimal.Decimal     `json:"revenue"`
	OperatingProfit decimal.Decimal     `json:"operating_profit"`
	OperatingMargin float64             `json:"operating_margin"`
	RevenueYoY      *float64            `json:"revenue_yoy"`
	Direction       analytics.Direction `json:"direction"`
	RevenueDisplay  string              `json:"revenue_display"`
	Share           float64             `json:"share"`
}

// RevenueRanking ranks full-data companies by latest revenue, largest
// first. Companies without financials and excluded ids are left out.
// Share is each company's part of the ranked total.
func RevenueRanking(c *Catalog, exclude []string) []RankingRow {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var rows []RankingRow
	for i := range c.snap.Companies {
		co := &c.snap.Companies[i]
		if !co.HasFullData || skip[co.ID] {
			continue
		}
		fin := c.Financials(co.ID)
		latest, ok := fin.Latest()
		if !ok {
			continue
		}
		yoy := RevenueYoY(fin)
		rows = append(rows, RankingRow{
			CompanyID:       co.ID,
			Name:            co.Name,
			Color:           brandColor(co),
			Year:            latest.Year,
			Revenue:         latest.Revenue,
			OperatingProfit: latest.OperatingProfit,
			OperatingMargin: latest.OperatingMargin,
			RevenueYoY:      yoy,
			Direction:       analytics.ClassifyGrowth(yoy),
			RevenueDisplay:  analytics.FormatRevenue(latest.Revenue),
		})
	}

	rows = analytics.SortStable(rows, func(a, b RankingRow) bool {
		return a.Revenue.LessThan(b.Revenue)
	}, analytics.Desc)

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Revenue)
	}
	for i := range rows {
		rows[i].Rank = i + 1
		if total.IsPositive() {
			rows[i].Share = rows[i].Revenue.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}
	return rows
}
