/*
Package welfare is the disability-welfare market domain.

PURPOSE:
  Defines the entities the dashboard shows (companies, their financials,
  histories, strategies) and the market-level collections (population,
  employment, facility counts, per-service facility analysis), plus the
  derivations that turn them into view models.

KEY CONCEPTS IN THIS FILE (types.go):
  - Company:           a tracked competitor or reference company
  - CompanyFinancials: yearly P&L series, ascending by fiscal year
  - CompanyHistory:    dated corporate events
  - CompanyStrategy:   mid-term plans, the latest plan is the last element

ALL ENTITIES ARE IMMUTABLE:
  They are decoded once by the factory package and never written to
  again. Derivations return new values.

MONEY:
  Monetary figures are millions of JPY held as decimal.Decimal. Optional
  monetary figures are decimal.NullDecimal. Ratios (margins, ROE, shares)
  are float64.

SEE ALSO:
  - catalog.go: indexed read access over a Snapshot
  - compare.go: multi-select company comparison
  - market.go: market-level collections and KPI cards
  - facility.go: per-service facility analysis
*/
package welfare

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Category groups companies by competitive relationship (A-F).
type Category string

const (
	CategoryDirect     Category = "A" // 直接競合
	CategoryAdjacent   Category = "B" // 隣接競合
	CategorySaaS       Category = "C" // SaaS競合
	CategoryHealthcare Category = "D" // 大手ヘルスケア
	CategoryPrivate    Category = "E" // 非上場主要企業
	CategoryTechRef    Category = "F" // テクノロジー参考
)

// ThreatLevel is an analyst rating from 1 (low) to 5 (highest).
type ThreatLevel int

// Valid reports whether the level is within 1..5.
func (t ThreatLevel) Valid() bool { return t >= 1 && t <= 5 }

// PriorityRank controls monitoring cadence: S, A, B or C.
type PriorityRank string

// MarketType is the listing venue.
type MarketType string

const (
	MarketPrime    MarketType = "プライム"
	MarketStandard MarketType = "スタンダード"
	MarketGrowth   MarketType = "グロース"
	MarketUnlisted MarketType = "非上場"
)

// HistoryCategory classifies a corporate event.
type HistoryCategory string

const (
	HistoryFounding    HistoryCategory = "founding"
	HistoryIPO         HistoryCategory = "ipo"
	HistoryMA          HistoryCategory = "ma"
	HistoryNewBusiness HistoryCategory = "new_business"
	HistoryPolicy      HistoryCategory = "policy"
	HistoryManagement  HistoryCategory = "management"
	HistoryMilestone   HistoryCategory = "milestone"
	HistoryExpansion   HistoryCategory = "expansion"
)

// GrowthDriver tags a key strategy with the lever it pulls.
type GrowthDriver string

// =============================================================================
// COMPANY
// =============================================================================

// Segment is a business line with its share of revenue.
type Segment struct {
	Name         string  `json:"name"`
	RevenueShare float64 `json:"revenueShare"`
}

// Company is a tracked company. Identity is ID.
type Company struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	NameEn           string       `json:"nameEn,omitempty"`
	StockCode        string       `json:"stockCode,omitempty"`
	Market           MarketType   `json:"market"`
	Category         Category     `json:"category"`
	PriorityRank     PriorityRank `json:"priorityRank"`
	Founded          string       `json:"founded,omitempty"`
	Headquarters     string       `json:"headquarters,omitempty"`
	CEO              string       `json:"ceo,omitempty"`
	EmployeeCount    *int         `json:"employeeCount,omitempty"`
	Mission          string       `json:"mission,omitempty"`
	Description      string       `json:"description"`
	MainServices     []string     `json:"mainServices"`
	Segments         []Segment    `json:"segments,omitempty"`
	Tags             []string     `json:"tags"`
	ThreatLevel      ThreatLevel  `json:"threatLevel"`
	MonitoringReason string       `json:"monitoringReason"`
	IRURL            string       `json:"irUrl,omitempty"`
	OfficialURL      string       `json:"officialUrl,omitempty"`
	BrandColor       string       `json:"brandColor"`
	HasFullData      bool         `json:"hasFullData"`
	LastUpdated      string       `json:"lastUpdated"`
	// MarketCap is in 億円.
	MarketCap   decimal.NullDecimal `json:"marketCap"`
	RecentTrend string              `json:"recentTrend,omitempty"`
}

// =============================================================================
// FINANCIALS
// =============================================================================

// SegmentFinancial is one segment's figures within a fiscal year.
type SegmentFinancial struct {
	Name    string              `json:"name"`
	Revenue decimal.Decimal     `json:"revenue"`
	Profit  decimal.NullDecimal `json:"profit"`
}

// FiscalYear is one year of a company's P&L.
type FiscalYear struct {
	// Year is the label as published, e.g. "2024" or "2024/03".
	Year               string              `json:"year"`
	Revenue            decimal.Decimal     `json:"revenue"`
	OperatingProfit    decimal.Decimal     `json:"operatingProfit"`
	OrdinaryProfit     decimal.NullDecimal `json:"ordinaryProfit"`
	NetIncome          decimal.Decimal     `json:"netIncome"`
	OperatingMargin    float64             `json:"operatingMargin"`
	ROE                *float64            `json:"roe,omitempty"`
	Employees          *int                `json:"employees,omitempty"`
	Facilities         *int                `json:"facilities,omitempty"`
	Users              *int                `json:"users,omitempty"`
	RevenuePerEmployee decimal.NullDecimal `json:"revenuePerEmployee"`
	Segments           []SegmentFinancial  `json:"segments,omitempty"`
}

// YearNumber parses the leading four digits of the label.
// Returns fallback when the label does not start with a year.
func (fy FiscalYear) YearNumber(fallback int) int {
	if len(fy.Year) < 4 {
		return fallback
	}
	n, err := strconv.Atoi(fy.Year[:4])
	if err != nil {
		return fallback
	}
	return n
}

// CompanyFinancials is a company's yearly series, ascending by year.
type CompanyFinancials struct {
	CompanyID   string       `json:"companyId"`
	Currency    string       `json:"currency"`
	Unit        string       `json:"unit"`
	FiscalYears []FiscalYear `json:"fiscalYears"`
}

// Latest returns the most recent fiscal year (the last element).
func (f *CompanyFinancials) Latest() (FiscalYear, bool) {
	if f == nil || len(f.FiscalYears) == 0 {
		return FiscalYear{}, false
	}
	return f.FiscalYears[len(f.FiscalYears)-1], true
}

// Previous returns the fiscal year before the latest.
func (f *CompanyFinancials) Previous() (FiscalYear, bool) {
	if f == nil || len(f.FiscalYears) < 2 {
		return FiscalYear{}, false
	}
	return f.FiscalYears[len(f.FiscalYears)-2], true
}

// =============================================================================
// HISTORY & STRATEGY
// =============================================================================

// HistoryEvent is one dated corporate event. Month is 0 when unknown.
type HistoryEvent struct {
	Year           int             `json:"year"`
	Month          int             `json:"month,omitempty"`
	Category       HistoryCategory `json:"category"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	SmsImplication string          `json:"smsImplication,omitempty"`
}

// CompanyHistory groups a company's events.
type CompanyHistory struct {
	CompanyID string         `json:"companyId"`
	Events    []HistoryEvent `json:"events"`
}

// KeyStrategy is one pillar of a mid-term plan.
type KeyStrategy struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	GrowthDriver GrowthDriver `json:"growthDriver"`
}

// PlanTargets are the numeric goals of a mid-term plan.
type PlanTargets struct {
	Revenue         decimal.NullDecimal `json:"revenue"`
	OperatingProfit decimal.NullDecimal `json:"operatingProfit"`
	Facilities      *int                `json:"facilities,omitempty"`
	Description     string              `json:"description"`
}

// MidTermPlan is a published mid-term management plan.
type MidTermPlan struct {
	Name                   string        `json:"name"`
	Period                 string        `json:"period"`
	Targets                PlanTargets   `json:"targets"`
	KeyStrategies          []KeyStrategy `json:"keyStrategies"`
	PreviousPlanComparison string        `json:"previousPlanComparison,omitempty"`
}

// CompanyStrategy lists a company's plans in publication order.
type CompanyStrategy struct {
	CompanyID string        `json:"companyId"`
	Plans     []MidTermPlan `json:"plans"`
}

// LatestPlan returns the last plan.
func (s *CompanyStrategy) LatestPlan() (MidTermPlan, bool) {
	if s == nil || len(s.Plans) == 0 {
		return MidTermPlan{}, false
	}
	return s.Plans[len(s.Plans)-1], true
}

// =============================================================================
// COMPETITIVE ANALYSIS
// =============================================================================

// Insights is the analyst's own-company takeaway for a competitor.
type Insights struct {
	ThreatLevel     ThreatLevel `json:"threatLevel"`
	LearnFrom       string      `json:"learnFrom"`
	WatchFor        string      `json:"watchFor"`
	CounterStrategy string      `json:"counterStrategy"`
}

// CompetitiveAdvantage is a qualitative profile of a company.
type CompetitiveAdvantage struct {
	CompanyID       string   `json:"companyId"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Differentiators []string `json:"differentiators"`
	Barriers        []string `json:"barriers"`
	Risks           []string `json:"risks"`
	Insights        Insights `json:"smsInsights"`
}

// TrendCategory classifies an industry trend.
type TrendCategory string

// CompanyImpact rates how a trend affects one company.
type CompanyImpact struct {
	CompanyID string `json:"companyId"`
	Impact    string `json:"impact"` // high | medium | low
	Note      string `json:"note"`
}

// IndustryTrend is a dated market or policy development.
type IndustryTrend struct {
	ID              string          `json:"id"`
	Category        TrendCategory   `json:"category"`
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Summary         string          `json:"summary"`
	Detail          string          `json:"detail,omitempty"`
	ImpactByCompany []CompanyImpact `json:"impactByCompany"`
	Sources         []string        `json:"sources,omitempty"`
}

// NoteTemplate is the kind of analysis note.
type NoteTemplate string

// AnalysisNote is a free-text analyst note.
type AnalysisNote struct {
	ID               string       `json:"id"`
	Date             string       `json:"date"`
	Title            string       `json:"title"`
	Template         NoteTemplate `json:"template"`
	RelatedCompanies []string     `json:"relatedCompanies"`
	RelatedTrends    []string     `json:"relatedTrends,omitempty"`
	Content          string       `json:"content"`
	KeyTakeaways     []string     `json:"keyTakeaways"`
}

// =============================================================================
// BUSINESS PLAN
// =============================================================================

// PlanRow is one line of a monthly business plan.
type PlanRow struct {
	Label      string              `json:"label"`
	Values     []decimal.Decimal   `json:"values"`
	Annual     decimal.NullDecimal `json:"annual"`
	Note       string              `json:"note,omitempty"`
	Unit       string              `json:"unit,omitempty"`
	IsMonetary bool                `json:"isMonetary,omitempty"`
	IsPercent  bool                `json:"isPercent,omitempty"`
	IsBold     bool                `json:"isBold,omitempty"`
}

// PlanSection is a titled block of plan rows.
type PlanSection struct {
	Title string    `json:"title"`
	Rows  []PlanRow `json:"rows"`
}

// CompanyBusinessPlan is a monthly P&L plan for a company or segment.
type CompanyBusinessPlan struct {
	CompanyID   string        `json:"companyId"`
	SegmentID   string        `json:"segmentId,omitempty"`
	SegmentName string        `json:"segmentName,omitempty"`
	Sections    []PlanSection `json:"sections"`
}

// =============================================================================
// REFERENCE
// =============================================================================

// GlossaryTerm defines one KPI or business term.
type GlossaryTerm struct {
	Term        string `json:"term"`
	Description string `json:"description"`
	Formula     string `json:"formula"`
	Benchmark   string `json:"benchmark"`
	ActionTip   string `json:"actionTip,omitempty"`
}

// GlossaryCategory is a titled group of terms.
type GlossaryCategory struct {
	Key   string         `json:"key"`
	Title string         `json:"title"`
	Terms []GlossaryTerm `json:"terms"`
}

// ResearchEntry is one web research result attached to a company.
type ResearchEntry struct {
	Type       string   `json:"type"`
	QueryTerms string   `json:"queryTerms"`
	SourceURLs []string `json:"sourceUrls"`
	SearchedAt string   `json:"searchedAt"`
}

// WebResearchData is the research log of one company.
type WebResearchData struct {
	CompanyID string          `json:"companyId"`
	Research  []ResearchEntry `json:"research"`
}
