package welfare

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/analytics"
)

// Sort keys accepted by ListCompanies.
const (
	SortCategory = "category"
	SortName     = "name"
	SortThreat   = "threat"
	SortPriority = "priority"
	SortRevenue  = "revenue"
)

// ListQuery filters and orders the company list.
type ListQuery struct {
	// Category filters by category; empty or "all" keeps every category.
	Category string
	// Search matches company names case-insensitively.
	Search       string
	Sort         analytics.SortState
	FullDataOnly bool
}

// CompanyCard is one entry of the company list.
type CompanyCard struct {
	Company        *Company            `json:"company"`
	CategoryLabel  Label               `json:"category_label"`
	ThreatLabel    Label               `json:"threat_label"`
	PriorityLabel  Label               `json:"priority_label"`
	Color          string              `json:"color"`
	LatestYear     string              `json:"latest_year,omitempty"`
	Revenue        decimal.NullDecimal `json:"revenue"`
	RevenueDisplay string              `json:"revenue_display"`
	RevenueYoY     *float64            `json:"revenue_yoy"`
}

// ListCompanies filters, searches and sorts the catalog's companies.
// Sorting is stable and starts from dataset order.
func ListCompanies(c *Catalog, q ListQuery) []CompanyCard {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	var cards []CompanyCard
	for i := range c.snap.Companies {
		co := &c.snap.Companies[i]
		if q.FullDataOnly && !co.HasFullData {
			continue
		}
		if q.Category != "" && q.Category != "all" && string(co.Category) != q.Category {
			continue
		}
		if needle != "" && !matchesName(co, needle) {
			continue
		}
		cards = append(cards, newCompanyCard(c, co))
	}

	if q.Sort.Key == "" {
		return cards
	}
	return analytics.SortStableMissingLast(cards, companyLess(q.Sort.Key), companyMissing(q.Sort.Key), q.Sort.Dir)
}

func matchesName(co *Company, needle string) bool {
	return strings.Contains(strings.ToLower(co.Name), needle) ||
		(co.NameEn != "" && strings.Contains(strings.ToLower(co.NameEn), needle))
}

func newCompanyCard(c *Catalog, co *Company) CompanyCard {
	card := CompanyCard{
		Company:        co,
		CategoryLabel:  CategoryLabel(co.Category),
		ThreatLabel:    ThreatLabel(co.ThreatLevel),
		PriorityLabel:  PriorityLabel(co.PriorityRank),
		Color:          brandColor(co),
		RevenueDisplay: analytics.Dash,
	}
	fin := c.Financials(co.ID)
	if latest, ok := fin.Latest(); ok {
		card.LatestYear = latest.Year
		card.Revenue = decimal.NewNullDecimal(latest.Revenue)
		card.RevenueDisplay = analytics.FormatRevenue(latest.Revenue)
		card.RevenueYoY = RevenueYoY(fin)
	}
	return card
}

func companyLess(key string) analytics.Less[CompanyCard] {
	switch key {
	case SortName:
		return func(a, b CompanyCard) bool { return a.Company.Name < b.Company.Name }
	case SortThreat:
		return func(a, b CompanyCard) bool { return a.Company.ThreatLevel < b.Company.ThreatLevel }
	case SortPriority:
		return func(a, b CompanyCard) bool {
			return priorityOrder(a.Company.PriorityRank) < priorityOrder(b.Company.PriorityRank)
		}
	case SortRevenue:
		return func(a, b CompanyCard) bool { return a.Revenue.Decimal.LessThan(b.Revenue.Decimal) }
	default:
		return func(a, b CompanyCard) bool {
			return categoryOrder(a.Company.Category) < categoryOrder(b.Company.Category)
		}
	}
}

// companyMissing marks cards shown as a dash in the sorted column. They sort
// last in either direction.
func companyMissing(key string) analytics.Missing[CompanyCard] {
	if key == SortRevenue {
		return func(c CompanyCard) bool { return !c.Revenue.Valid }
	}
	return nil
}

// brandColor prefers the dataset color, then the static palette.
func brandColor(co *Company) string {
	if co.BrandColor != "" {
		return co.BrandColor
	}
	return CompanyColor(co.ID)
}

// RevenueYoY is the YoY change of revenue between the last two fiscal years.
func RevenueYoY(f *CompanyFinancials) *float64 {
	if f == nil {
		return nil
	}
	return analytics.Growth(RevenueSeries(f))
}

// RevenueSeries returns revenue per fiscal year. Years that do not parse
// fall back to their index.
func RevenueSeries(f *CompanyFinancials) []analytics.Point {
	if f == nil {
		return nil
	}
	out := make([]analytics.Point, len(f.FiscalYears))
	for i, fy := range f.FiscalYears {
		out[i] = analytics.Point{Year: fy.YearNumber(i), Value: fy.Revenue.InexactFloat64()}
	}
	return out
}
