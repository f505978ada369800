package welfare_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/welfare-intel/analytics"
	"github.com/warp/welfare-intel/rewards"
	"github.com/warp/welfare-intel/welfare"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func intp(v int) *int { return &v }

func fy(year string, revenue, op int64) welfare.FiscalYear {
	margin := 0.0
	if revenue != 0 {
		margin = float64(op) / float64(revenue) * 100
	}
	return welfare.FiscalYear{
		Year:            year,
		Revenue:         d(revenue),
		OperatingProfit: d(op),
		NetIncome:       d(op / 2),
		OperatingMargin: margin,
		Employees:       intp(1000),
	}
}

func testSnapshot() *welfare.Snapshot {
	return &welfare.Snapshot{
		ID: "snap-1",
		Companies: []welfare.Company{
			{ID: "litalico", Name: "LITALICO", Category: welfare.CategoryDirect, PriorityRank: "S", ThreatLevel: 5, BrandColor: "#00A5E3", HasFullData: true, OfficialURL: "https://litalico.co.jp/"},
			{ID: "welbe", Name: "ウェルビー", Category: welfare.CategoryDirect, PriorityRank: "A", ThreatLevel: 4, BrandColor: "#E85298", HasFullData: true},
			{ID: "sms", Name: "エス・エム・エス", Category: welfare.CategorySaaS, PriorityRank: "B", ThreatLevel: 2, HasFullData: true},
			{ID: "kaien", Name: "Kaien", Category: welfare.CategoryAdjacent, PriorityRank: "C", ThreatLevel: 3},
			{ID: "cocoruport", Name: "Cocorport", Category: welfare.CategoryAdjacent, PriorityRank: "A", ThreatLevel: 3, HasFullData: true},
		},
		Financials: []welfare.CompanyFinancials{
			{CompanyID: "litalico", FiscalYears: []welfare.FiscalYear{fy("2023/03", 25000, 2500), fy("2024/03", 28500, 3000)}},
			{CompanyID: "welbe", FiscalYears: []welfare.FiscalYear{fy("2023/03", 0, 0), fy("2024/03", 12000, 2400)}},
			{CompanyID: "sms", FiscalYears: []welfare.FiscalYear{fy("2024/03", 50000, 8000)}},
			{CompanyID: "cocoruport", FiscalYears: []welfare.FiscalYear{fy("2023/03", 4000, 200), fy("2024/03", 5000, 300)}},
		},
		Histories: []welfare.CompanyHistory{
			{CompanyID: "litalico", Events: []welfare.HistoryEvent{
				{Year: 2005, Month: 12, Category: welfare.HistoryFounding, Title: "設立"},
				{Year: 2016, Month: 3, Category: welfare.HistoryIPO, Title: "上場"},
			}},
			{CompanyID: "welbe", Events: []welfare.HistoryEvent{
				{Year: 2016, Category: welfare.HistoryIPO, Title: "上場"},
				{Year: 2010, Month: 5, Category: welfare.HistoryFounding, Title: "設立"},
			}},
		},
		Strategies: []welfare.CompanyStrategy{
			{CompanyID: "litalico", Plans: []welfare.MidTermPlan{
				{Name: "旧中計"},
				{Name: "中期経営計画2027", KeyStrategies: []welfare.KeyStrategy{{Title: "拠点拡大", GrowthDriver: "expansion"}}},
			}},
		},
	}
}

func testCatalog() *welfare.Catalog { return welfare.NewCatalog(testSnapshot()) }

// =============================================================================
// COMPARISON TESTS
// =============================================================================

func TestCompare_OneRowPerSelectedID(t *testing.T) {
	// GIVEN: Four selected ids; one company is unknown, one has no financials
	// WHEN: The comparison is built
	// THEN: Four rows come back in selection order, none dropped

	c := testCatalog()
	cmp := welfare.Compare(c, []string{"kaien", "ghost", "litalico", "welbe"}, welfare.DefaultCompareOptions())

	require.True(t, cmp.Ready)
	require.Len(t, cmp.Financials, 4)
	assert.Equal(t, []string{"kaien", "ghost", "litalico", "welbe"}, []string{
		cmp.Financials[0].ID, cmp.Financials[1].ID, cmp.Financials[2].ID, cmp.Financials[3].ID,
	})

	ghost := cmp.Financials[1]
	assert.Nil(t, ghost.Company)
	assert.Equal(t, analytics.Dash, ghost.Name)
	assert.False(t, ghost.Revenue.Valid)
	assert.Equal(t, analytics.Dash, ghost.Display.Revenue)

	kaien := cmp.Financials[0]
	assert.NotNil(t, kaien.Company)
	assert.Nil(t, kaien.RevenueYoY)
	assert.Equal(t, analytics.DirectionNone, kaien.Direction)
}

func TestCompare_RevenueYoY(t *testing.T) {
	c := testCatalog()
	cmp := welfare.Compare(c, []string{"litalico", "welbe"}, welfare.DefaultCompareOptions())

	lit := cmp.Financials[0]
	require.NotNil(t, lit.RevenueYoY)
	assert.InDelta(t, 14.0, *lit.RevenueYoY, 1e-9)
	assert.Equal(t, "+14.0%", lit.Display.RevenueYoY)
	assert.Equal(t, "285.0億", lit.Display.Revenue)

	welbe := cmp.Financials[1]
	assert.Nil(t, welbe.RevenueYoY, "previous revenue of zero yields no figure")
	assert.Equal(t, analytics.Dash, welbe.Display.RevenueYoY)
}

func TestCompare_GatingAtMinimum(t *testing.T) {
	// GIVEN: A selection of one company
	// WHEN: The comparison is built
	// THEN: A placeholder is returned; at exactly two the full output appears

	c := testCatalog()

	one := welfare.Compare(c, []string{"litalico"}, welfare.DefaultCompareOptions())
	assert.False(t, one.Ready)
	assert.Equal(t, "2社以上を選択してください", one.Message)
	assert.Empty(t, one.Financials)

	dup := welfare.Compare(c, []string{"litalico", "litalico"}, welfare.DefaultCompareOptions())
	assert.False(t, dup.Ready, "duplicates collapse before gating")

	two := welfare.Compare(c, []string{"litalico", "welbe"}, welfare.DefaultCompareOptions())
	assert.True(t, two.Ready)
	assert.Empty(t, two.Message)
	assert.Len(t, two.Financials, 2)
}

func TestCompare_MinimumNeverBelowTwo(t *testing.T) {
	// GIVEN: Options asking for a single company, and options asking for three
	// WHEN: Comparisons are built
	// THEN: One company stays a placeholder; the message names the effective minimum

	c := testCatalog()

	loose := welfare.Compare(c, []string{"litalico"}, welfare.CompareOptions{MinSelection: 1, MaxSelection: 4})
	assert.False(t, loose.Ready)
	assert.Empty(t, loose.Financials)
	assert.Equal(t, 2, welfare.CompareOptions{MinSelection: 1}.Minimum())

	strict := welfare.Compare(c, []string{"litalico", "welbe"}, welfare.CompareOptions{MinSelection: 3, MaxSelection: 4})
	assert.False(t, strict.Ready)
	assert.Equal(t, "3社以上を選択してください", strict.Message)
}

func TestCompare_TruncatesBeyondMaximum(t *testing.T) {
	c := testCatalog()
	cmp := welfare.Compare(c, []string{"litalico", "welbe", "sms", "kaien", "cocoruport"}, welfare.DefaultCompareOptions())

	assert.Len(t, cmp.Financials, 4)
	assert.Equal(t, []string{"cocoruport"}, cmp.Truncated)
}

func TestCompare_StrategyAndTimeline(t *testing.T) {
	c := testCatalog()
	cmp := welfare.Compare(c, []string{"welbe", "litalico"}, welfare.DefaultCompareOptions())

	require.Len(t, cmp.Strategies, 1, "only companies with a plan appear in the matrix")
	assert.Equal(t, "中期経営計画2027", cmp.Strategies[0].PlanName)
	assert.Equal(t, "拠点拡大", cmp.Strategies[0].Drivers[0].Label)

	require.Len(t, cmp.Timeline, 4)
	got := make([]string, len(cmp.Timeline))
	for i, e := range cmp.Timeline {
		got[i] = e.When + " " + e.CompanyID
	}
	assert.Equal(t, []string{
		"2005年12月 litalico",
		"2010年5月 welbe",
		"2016年 welbe",
		"2016年3月 litalico",
	}, got)
}

func TestNormalizeSelection(t *testing.T) {
	kept, truncated := welfare.NormalizeSelection([]string{"a", "", "b", "a", "c"}, 2)
	assert.Equal(t, []string{"a", "b"}, kept)
	assert.Equal(t, []string{"c"}, truncated)
}

// =============================================================================
// LISTING & RANKING TESTS
// =============================================================================

func TestListCompanies_SortToggleRestoresCategoryOrder(t *testing.T) {
	// GIVEN: The company list sorted by category
	// WHEN: It is re-sorted by name, then by category
	// THEN: The category sequence matches the first category sort

	c := testCatalog()
	state := analytics.SortState{}.Toggle(welfare.SortCategory)
	first := welfare.ListCompanies(c, welfare.ListQuery{Sort: state})

	state = state.Toggle(welfare.SortName)
	_ = welfare.ListCompanies(c, welfare.ListQuery{Sort: state})

	state = state.Toggle(welfare.SortCategory)
	again := welfare.ListCompanies(c, welfare.ListQuery{Sort: state})

	require.Len(t, again, len(first))
	for i := range first {
		assert.Equal(t, first[i].Company.ID, again[i].Company.ID)
	}
	assert.Equal(t, "litalico", first[0].Company.ID)
	assert.Equal(t, "welbe", first[1].Company.ID)
}

func TestListCompanies_RevenueSortKeepsMissingLast(t *testing.T) {
	// GIVEN: Companies with revenue and kaien without financials
	// WHEN: The list is sorted by revenue in each direction
	// THEN: Revenues follow the direction and kaien stays last

	c := testCatalog()
	ids := func(cards []welfare.CompanyCard) []string {
		out := make([]string, len(cards))
		for i, card := range cards {
			out[i] = card.Company.ID
		}
		return out
	}

	asc := welfare.ListCompanies(c, welfare.ListQuery{Sort: analytics.SortState{Key: welfare.SortRevenue, Dir: analytics.Asc}})
	assert.Equal(t, []string{"cocoruport", "welbe", "litalico", "sms", "kaien"}, ids(asc))

	desc := welfare.ListCompanies(c, welfare.ListQuery{Sort: analytics.SortState{Key: welfare.SortRevenue, Dir: analytics.Desc}})
	assert.Equal(t, []string{"sms", "litalico", "welbe", "cocoruport", "kaien"}, ids(desc))
	assert.False(t, desc[len(desc)-1].Revenue.Valid)
}

func TestListCompanies_FilterAndSearch(t *testing.T) {
	c := testCatalog()

	adjacent := welfare.ListCompanies(c, welfare.ListQuery{Category: "B"})
	assert.Len(t, adjacent, 2)

	found := welfare.ListCompanies(c, welfare.ListQuery{Search: "LiTaLiCo"})
	require.Len(t, found, 1)
	assert.Equal(t, "285.0億", found[0].RevenueDisplay)

	full := welfare.ListCompanies(c, welfare.ListQuery{FullDataOnly: true, Category: "all"})
	assert.Len(t, full, 4)
}

func TestRevenueRanking_ExcludesAndOrders(t *testing.T) {
	c := testCatalog()
	rows := welfare.RevenueRanking(c, welfare.DefaultRankingExclude)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"litalico", "welbe", "cocoruport"}, []string{rows[0].CompanyID, rows[1].CompanyID, rows[2].CompanyID})
	assert.Equal(t, 1, rows[0].Rank)

	sum := 0.0
	for _, r := range rows {
		sum += r.Share
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

// =============================================================================
// CATALOG & PROFILE TESTS
// =============================================================================

func TestCatalog_NotFound(t *testing.T) {
	c := testCatalog()

	_, err := c.Company("nope")
	assert.True(t, analytics.IsNotFound(err))
	assert.True(t, errors.Is(err, welfare.ErrCompanyNotFound))

	_, err = c.Facility("nope")
	assert.ErrorIs(t, err, welfare.ErrServiceNotFound)

	_, err = c.Disability("nope")
	assert.ErrorIs(t, err, welfare.ErrDisabilityNotFound)

	assert.Nil(t, c.Financials("kaien"))
	assert.NotNil(t, c.Market())
}

func TestCompanyProfile(t *testing.T) {
	c := testCatalog()
	p, err := welfare.CompanyProfile(c, "litalico")
	require.NoError(t, err)

	assert.Equal(t, "直接競合", p.CategoryLabel.Label)
	assert.Equal(t, "最高", p.ThreatLabel.Label)
	assert.Equal(t, "2024/03", p.Summary.Year)
	assert.Equal(t, analytics.DirectionUp, p.Summary.Direction)
	require.NotNil(t, p.LatestPlan)
	assert.Equal(t, "中期経営計画2027", p.LatestPlan.Name)
	assert.Equal(t, 2, p.HistoryCount)
	assert.Equal(t, "litalico.co.jp", p.Favicon.Domain)
	assert.Contains(t, p.Favicon.URL, "domain=litalico.co.jp")

	kaien, err := welfare.CompanyProfile(c, "kaien")
	require.NoError(t, err)
	assert.Equal(t, analytics.Dash, kaien.Summary.RevenueDisplay)
	assert.Empty(t, kaien.Favicon.URL)
	assert.Equal(t, "K", kaien.Favicon.Initial)
	assert.Equal(t, "#3F51B5", kaien.Favicon.Color, "falls back to the static palette")
}

func TestFinancials_PerYearYoY(t *testing.T) {
	c := testCatalog()
	fs, err := welfare.Financials(c, "welbe")
	require.NoError(t, err)
	require.Len(t, fs.Years, 2)
	assert.Nil(t, fs.Years[0].RevenueYoY)
	assert.Nil(t, fs.Years[1].RevenueYoY)

	empty, err := welfare.Financials(c, "kaien")
	require.NoError(t, err)
	assert.Empty(t, empty.Years)
}

func TestCompanyTimeline_Sorted(t *testing.T) {
	events, err := welfare.CompanyTimeline(testCatalog(), "welbe")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2010, events[0].Year)
	assert.Equal(t, "設立", events[0].Title)

	_, err = welfare.CompanyTimeline(testCatalog(), "ghost")
	assert.ErrorIs(t, err, welfare.ErrCompanyNotFound)
}

// =============================================================================
// MARKET TESTS
// =============================================================================

func TestServiceCounts_PreservesKeyOrder(t *testing.T) {
	raw := `{"year": 2023, "services": {"放課後等デイサービス": 21000, "児童発達支援": 11000, "生活介護": 12000}}`
	var y welfare.FacilityCountYear
	require.NoError(t, json.Unmarshal([]byte(raw), &y))

	require.Len(t, y.Services, 3)
	assert.Equal(t, "放課後等デイサービス", y.Services[0].Service)
	assert.Equal(t, "生活介護", y.Services[2].Service)
	assert.Equal(t, 44000, y.Services.Total())

	out, err := json.Marshal(y.Services)
	require.NoError(t, err)
	assert.JSONEq(t, `{"放課後等デイサービス":21000,"児童発達支援":11000,"生活介護":12000}`, string(out))
}

func marketFixture() *welfare.MarketOverview {
	return &welfare.MarketOverview{
		DisabilityPopulation: []welfare.PopulationYear{
			{Year: 2022, Total: 9_600_000, PopulationRatio: 7.6},
			{Year: 2023, Total: 11_600_000, PopulationRatio: 9.2},
		},
		DisabilityEmployment: []welfare.EmploymentYear{
			{Year: 2022, EmployedCount: 0, LegalRate: 2.3},
			{Year: 2023, EmployedCount: 642_000, ActualRate: 2.33, LegalRate: 2.5, ComplianceRate: 50.1},
		},
		FacilityCountsByType: []welfare.FacilityCountYear{
			{Year: 2022, Services: welfare.ServiceCounts{
				{Service: "放課後等デイサービス", Count: 19000},
				{Service: "児童発達支援", Count: 10000},
			}},
			{Year: 2023, Services: welfare.ServiceCounts{
				{Service: "放課後等デイサービス", Count: 21000},
				{Service: "児童発達支援", Count: 11000},
			}},
		},
	}
}

func TestMarketKPIs(t *testing.T) {
	// GIVEN: Employment whose previous year is zero
	// WHEN: KPI cards are built
	// THEN: The employment card has no growth; the others do

	cards := welfare.MarketKPIs(marketFixture())
	require.Len(t, cards, 4)

	pop := cards[0]
	require.NotNil(t, pop.Growth)
	assert.InDelta(t, 20.833, *pop.Growth, 1e-3)
	assert.Equal(t, "1160万人", pop.Display)
	assert.Equal(t, "人口の9.2%", pop.Sub)

	emp := cards[1]
	assert.Nil(t, emp.Growth)
	assert.Equal(t, analytics.Dash, emp.Change)
	assert.Equal(t, "64.2万人", emp.Display)

	fac := cards[2]
	require.NotNil(t, fac.Growth)
	assert.InDelta(t, 10.345, *fac.Growth, 1e-3)
	assert.Equal(t, "2サービス種類", fac.Sub)

	rate := cards[3]
	assert.Equal(t, "2.5%", rate.Display)
	assert.Equal(t, "達成率 50.1%", rate.Sub)
}

func TestMarketKPIs_EmptyMarket(t *testing.T) {
	cards := welfare.MarketKPIs(nil)
	require.Len(t, cards, 4)
	for _, c := range cards {
		assert.Nil(t, c.Value)
		assert.Equal(t, analytics.Dash, c.Display)
	}
}

func TestBuildFacilityStack_NeverEmpty(t *testing.T) {
	years := marketFixture().FacilityCountsByType

	all := welfare.BuildFacilityStack(years, welfare.StackQuery{})
	assert.Len(t, all.Legend, 2)
	assert.Equal(t, 32000, all.Years[1].Total)

	one := welfare.BuildFacilityStack(years, welfare.StackQuery{Services: []string{"児童発達支援"}})
	assert.Equal(t, 11000, one.Years[1].Total)
	assert.False(t, one.Legend[0].Active)

	unknown := welfare.BuildFacilityStack(years, welfare.StackQuery{Services: []string{"nope"}})
	assert.Equal(t, 32000, unknown.Years[1].Total, "an empty selection falls back to every service")

	sel := welfare.NewServiceSelection([]string{"a", "b"})
	sel.Toggle("a")
	sel.Toggle("b")
	assert.Equal(t, []string{"b"}, sel.Active(), "the last service cannot be removed")
	sel.Toggle("a")
	assert.Equal(t, []string{"a", "b"}, sel.Active())
}

func TestBuildFacilityStack_Toggle(t *testing.T) {
	// GIVEN: Both services shown
	// WHEN: Legend toggles hide one service, then try to hide the other
	// THEN: The hidden service leaves the totals; the last one stays active

	years := marketFixture().FacilityCountsByType

	hidden := welfare.BuildFacilityStack(years, welfare.StackQuery{Toggle: []string{"放課後等デイサービス"}})
	assert.Equal(t, 11000, hidden.Years[1].Total)
	assert.False(t, hidden.Legend[0].Active)
	assert.True(t, hidden.Legend[1].Active)

	last := welfare.BuildFacilityStack(years, welfare.StackQuery{
		Services: []string{"児童発達支援"},
		Toggle:   []string{"児童発達支援"},
	})
	assert.Equal(t, 11000, last.Years[1].Total, "the last active service cannot be hidden")
}

// =============================================================================
// FACILITY TESTS
// =============================================================================

func facilityFixture() *welfare.FacilityAnalysis {
	var ts []welfare.YearCount
	var users []welfare.YearCount
	for i, y := range []int{2018, 2019, 2020, 2021, 2022, 2023, 2024} {
		ts = append(ts, welfare.YearCount{Year: y, Count: 10000 + i*1000})
		if y != 2019 {
			users = append(users, welfare.YearCount{Year: y, Count: 100000 + i*10000})
		}
	}
	return &welfare.FacilityAnalysis{
		Slug:               "houkago-day",
		ServiceType:        "放課後等デイサービス",
		Category:           rewards.CategoryChild,
		FacilityTimeSeries: ts,
		UserTimeSeries:     users,
		RewardRevisions: []rewards.Revision{
			{Year: 2020, Title: "令和3年度報酬改定", Type: rewards.TypeRevision},
			{Year: 2012, Title: "創設", Type: rewards.TypeCreation},
		},
		EntityDistribution: welfare.EntityDistribution{
			Total: 1000,
			ByEntityType: []welfare.EntityTypeCount{
				{Type: "営利法人", Count: 600},
				{Type: "社会福祉法人", Count: 250},
				{Type: "NPO", Count: 150},
			},
		},
		Regional: &welfare.RegionalData{
			ByPrefecture: []welfare.PrefectureCount{
				{Name: "北海道", Region: "北海道・東北", Count: 50},
				{Name: "東京都", Region: "関東", Count: 300},
				{Name: "神奈川県", Region: "関東", Count: 200},
				{Name: "大阪府", Region: "近畿", Count: 250},
				{Name: "沖縄県", Region: "九州・沖縄", Count: 20},
			},
		},
	}
}

func TestFacilityView_OverlayAndShares(t *testing.T) {
	// GIVEN: Facility counts 2018-2024 and a revision in 2020
	// WHEN: The facility view is derived
	// THEN: Only 2020 carries the revision, users missing in 2019 are 0

	v := welfare.FacilityView(facilityFixture())

	require.Len(t, v.Growth, 7)
	assert.Nil(t, v.Growth[0].Growth)
	assert.Nil(t, v.Growth[1].Revision)
	assert.Equal(t, 0, v.Growth[1].Users)
	require.NotNil(t, v.Growth[2].Revision)
	assert.Equal(t, "令和3年度報酬改定", v.Growth[2].Revision.Title)

	require.Len(t, v.Markers, 1, "the 2012 creation is outside the series")
	assert.Equal(t, 2020, v.Markers[0].Year)

	assert.InDelta(t, 60.0, v.Entities[0].Share, 1e-9)
	require.NotNil(t, v.KPIs.FacilityGrowth)
	assert.InDelta(t, 1000.0/15000.0*100, *v.KPIs.FacilityGrowth, 1e-9)
	assert.Equal(t, "16,000", v.KPIs.FacilitiesFormat)
}

func TestRegional_Concentration(t *testing.T) {
	rv := welfare.Regional(facilityFixture().Regional)

	assert.Equal(t, 820, rv.TotalFacilities)
	assert.Equal(t, 5, rv.PrefectureCount)
	assert.Equal(t, "東京都", rv.Top10[0].Label)
	assert.Equal(t, "大阪府", rv.Table[1].Label)
	assert.LessOrEqual(t, rv.Concentration.Top3Share, rv.Concentration.Top5Share)
	assert.InDelta(t, 100.0, rv.Concentration.Top5Share, 1e-9)

	require.Len(t, rv.ByRegion, 4)
	assert.Equal(t, "関東", rv.ByRegion[0].Label)
	assert.Equal(t, 500, rv.ByRegion[0].Count)
}

func TestFacilityTooltip(t *testing.T) {
	// GIVEN: Facility and user series with a 2020 revision and no 2019 users
	// WHEN: Tooltips for 2020 and 2019 are built
	// THEN: 2020 carries both counts and the revision; 2019 has facilities only

	f := facilityFixture()

	t2020 := welfare.FacilityTooltip(f, 2020)
	assert.Equal(t, 12000.0, t2020.Value)
	assert.True(t, t2020.HasUsers)
	assert.Equal(t, 120000.0, t2020.Users)
	require.NotNil(t, t2020.Event)

	t2019 := welfare.FacilityTooltip(f, 2019)
	assert.Equal(t, 11000.0, t2019.Value)
	assert.False(t, t2019.HasUsers)
	assert.Zero(t, t2019.Users)
	assert.Nil(t, t2019.Event)
}

// =============================================================================
// SIMULATOR TESTS
// =============================================================================

func planFixture() *welfare.CompanyBusinessPlan {
	row := func(label string, annual int64, bold bool) welfare.PlanRow {
		return welfare.PlanRow{Label: label, Annual: decimal.NewNullDecimal(d(annual)), IsMonetary: true, IsBold: bold}
	}
	return &welfare.CompanyBusinessPlan{
		CompanyID: "litalico",
		Sections: []welfare.PlanSection{
			{Title: "売上", Rows: []welfare.PlanRow{row("売上高合計", 1000, true)}},
			{Title: "費用", Rows: []welfare.PlanRow{
				row("売上原価", 300, false),
				row("人件費", 400, false),
				{Label: "広告宣伝費", Values: []decimal.Decimal{d(50), d(50)}, IsMonetary: true},
				row("システム開発費", 0, false),
			}},
			{Title: "利益", Rows: []welfare.PlanRow{
				{Label: "営業利益", Annual: decimal.NewNullDecimal(d(200)), IsMonetary: true, IsBold: true,
					Values: []decimal.Decimal{d(-10), d(0), d(5), d(20)}},
			}},
		},
	}
}

func TestSimulate_BaseAndPresets(t *testing.T) {
	plan := planFixture()

	params, err := welfare.SimulationParams(plan)
	require.NoError(t, err)
	require.Len(t, params, 4, "zero-valued other SG&A is not adjustable")
	assert.True(t, params[3].BaseValue.Equal(d(100)), "advertising sums its months")

	base, err := welfare.Simulate(plan, nil)
	require.NoError(t, err)
	assert.True(t, base.Base.OperatingProfit.Equal(d(200)))
	assert.InDelta(t, 20.0, base.Base.OperatingMargin, 1e-9)
	assert.True(t, base.Delta.IsZero())

	adj, err := welfare.PresetAdjustments(welfare.PresetOptimistic, params)
	require.NoError(t, err)
	opt, err := welfare.Simulate(plan, adj)
	require.NoError(t, err)
	// revenue 1100, costs 800*0.95 = 760
	assert.True(t, opt.Adjusted.OperatingProfit.Equal(d(340)), "got %s", opt.Adjusted.OperatingProfit)

	adj, err = welfare.PresetAdjustments(welfare.PresetPessimistic, params)
	require.NoError(t, err)
	pes, err := welfare.Simulate(plan, adj)
	require.NoError(t, err)
	// revenue 900, costs 880
	assert.True(t, pes.Adjusted.OperatingProfit.Equal(d(20)), "got %s", pes.Adjusted.OperatingProfit)
	assert.Less(t, pes.MarginDelta, 0.0)

	assert.Equal(t, 3, base.Summary.BreakEvenMonth)
	assert.Equal(t, "3月", base.Summary.BreakEvenLabel)
}

func TestSimulate_Errors(t *testing.T) {
	empty := &welfare.CompanyBusinessPlan{CompanyID: "x"}
	_, err := welfare.Simulate(empty, nil)
	assert.ErrorIs(t, err, welfare.ErrNoRevenue)

	_, err = welfare.Simulate(planFixture(), welfare.Adjustments{welfare.ParamRevenue: 45})
	assert.True(t, analytics.IsClientError(err))

	_, err = welfare.PresetAdjustments("wild", nil)
	assert.True(t, analytics.IsClientError(err))
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate_Findings(t *testing.T) {
	s := testSnapshot()
	s.Companies = append(s.Companies, welfare.Company{ID: "welbe", Category: "Z", ThreatLevel: 9})
	s.Financials = append(s.Financials, welfare.CompanyFinancials{
		CompanyID:   "ghost",
		FiscalYears: []welfare.FiscalYear{fy("2024", 10, 1), fy("2023", 10, 1)},
	})

	r := welfare.Validate(s)

	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 3, "duplicate id, bad category, bad threat level")
	assert.Len(t, r.Warnings, 3, "missing priority, unknown company, unsorted years")
	assert.Equal(t, "3 errors, 3 warnings, 0 info", r.Summary)
}

func TestValidate_CleanSnapshot(t *testing.T) {
	r := welfare.Validate(testSnapshot())
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}

// =============================================================================
// CONTENT TESTS
// =============================================================================

func TestFilterTrends_NewestFirst(t *testing.T) {
	trends := []welfare.IndustryTrend{
		{ID: "t1", Category: "policy", Date: "2023-04-01", ImpactByCompany: []welfare.CompanyImpact{{CompanyID: "litalico"}}},
		{ID: "t2", Category: "market", Date: "2024-01-10"},
		{ID: "t3", Category: "policy", Date: "2024-06-01", ImpactByCompany: []welfare.CompanyImpact{{CompanyID: "welbe"}}},
	}

	all := welfare.FilterTrends(trends, welfare.TrendQuery{Category: "all"})
	assert.Equal(t, "t3", all[0].ID)
	assert.Equal(t, "t1", all[2].ID)

	policy := welfare.FilterTrends(trends, welfare.TrendQuery{Category: "policy", CompanyID: "litalico"})
	require.Len(t, policy, 1)
	assert.Equal(t, "t1", policy[0].ID)

	none := welfare.FilterTrends(trends, welfare.TrendQuery{CompanyID: "ghost"})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDisabilitySummary(t *testing.T) {
	dc := welfare.DisabilityCategory{
		ID:    "developmental",
		Title: "発達障害",
		Statistics: welfare.DisabilityStatistics{
			PrevalenceRate: 4.1,
			TrendData:      []welfare.TrendPoint{{Year: 2016, Count: 48}, {Year: 2022, Count: 87}},
		},
		SubTypes: []welfare.DisabilitySubtype{{ID: "asd", Name: "自閉スペクトラム症"}},
	}

	s := dc.Summarize()
	assert.Equal(t, 1, s.SubtypeCount)
	require.NotNil(t, s.TrendGrowth)
	assert.InDelta(t, 81.25, *s.TrendGrowth, 1e-9)
	assert.Equal(t, analytics.DirectionUp, s.Direction)

	sub, ok := dc.Subtype("asd")
	assert.True(t, ok)
	assert.Equal(t, "自閉スペクトラム症", sub.Name)
	_, ok = dc.Subtype("adhd")
	assert.False(t, ok)
}

func TestRevisionCatalog(t *testing.T) {
	s := testSnapshot()
	s.Facilities = []welfare.FacilityAnalysis{*facilityFixture()}
	c := welfare.NewCatalog(s)

	entries := welfare.RevisionCatalog(c)
	require.Len(t, entries, 1)
	assert.Equal(t, "houkago-day", entries[0].ServiceSlug)
	assert.Len(t, entries[0].Revisions, 2)

	sums := welfare.ServiceSummaries(c)
	require.Len(t, sums, 1)
	assert.Equal(t, 16000, sums[0].Facilities)
	assert.Equal(t, 2, sums[0].Revisions)

	f, err := c.Facility("houkago-day")
	require.NoError(t, err)
	assert.Equal(t, "放課後等デイサービス", f.ServiceType)
}
