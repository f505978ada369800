/*
constants.go - Static lookup tables

PURPOSE:
  Labels and colors shared by every view: company categories, threat
  levels, priority ranks, history categories, growth drivers, trend
  categories, note templates, brand colors and service colors.

  Lookups never fail. An unknown key returns the fallback entry so a view
  can always render something.
*/
package welfare

// FallbackColor is used when no color is configured for a key.
const FallbackColor = "#6B7280"

// Label is a display label with its color.
type Label struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// =============================================================================
// COMPANY CLASSIFICATION
// =============================================================================

// Categories lists the company categories in display order.
var Categories = []Label{
	{Key: "A", Label: "直接競合", Description: "障害福祉サービス運営の上場企業", Color: "#EF4444"},
	{Key: "B", Label: "隣接競合", Description: "障害者雇用支援・福祉周辺", Color: "#F59E0B"},
	{Key: "C", Label: "SaaS競合", Description: "福祉SaaS・システム競合", Color: "#3B82F6"},
	{Key: "D", Label: "大手ヘルスケア", Description: "大手介護・ヘルスケア企業", Color: "#8B5CF6"},
	{Key: "E", Label: "非上場主要企業", Description: "業界で存在感のある非上場企業", Color: "#6B7280"},
	{Key: "F", Label: "テクノロジー参考", Description: "DX・AI活用のベンチマーク企業", Color: "#10B981"},
}

// ThreatLevels is indexed by level-1.
var ThreatLevels = []Label{
	{Key: "1", Label: "低", Color: "#10B981"},
	{Key: "2", Label: "やや低", Color: "#6EE7B7"},
	{Key: "3", Label: "中", Color: "#F59E0B"},
	{Key: "4", Label: "高", Color: "#F87171"},
	{Key: "5", Label: "最高", Color: "#EF4444"},
}

// PriorityRanks lists monitoring priorities from highest to lowest.
var PriorityRanks = []Label{
	{Key: "S", Label: "S", Description: "最重点監視（四半期ごと）", Color: "#EF4444"},
	{Key: "A", Label: "A", Description: "重点監視（半期ごと）", Color: "#F59E0B"},
	{Key: "B", Label: "B", Description: "定期チェック（年次）", Color: "#6B7280"},
	{Key: "C", Label: "C", Description: "参考モニタリング", Color: "#4B5563"},
}

// =============================================================================
// EVENTS & STRATEGY
// =============================================================================

var HistoryCategories = []Label{
	{Key: "founding", Label: "創業", Color: "#3B82F6"},
	{Key: "ipo", Label: "上場", Color: "#8B5CF6"},
	{Key: "ma", Label: "M&A", Color: "#EF4444"},
	{Key: "new_business", Label: "新規事業", Color: "#10B981"},
	{Key: "policy", Label: "制度対応", Color: "#F59E0B"},
	{Key: "management", Label: "経営変更", Color: "#6B7280"},
	{Key: "milestone", Label: "マイルストーン", Color: "#06B6D4"},
	{Key: "expansion", Label: "拠点拡大", Color: "#D97706"},
}

var GrowthDrivers = []Label{
	{Key: "expansion", Label: "拠点拡大", Color: "#D97706"},
	{Key: "ma", Label: "M&A", Color: "#EF4444"},
	{Key: "technology", Label: "テクノロジー", Color: "#8B5CF6"},
	{Key: "platform", Label: "プラットフォーム", Color: "#3B82F6"},
	{Key: "new_domain", Label: "新領域", Color: "#10B981"},
	{Key: "efficiency", Label: "効率化", Color: "#6B7280"},
}

var TrendCategories = []Label{
	{Key: "policy", Label: "政策・報酬改定", Color: "#DC2626"},
	{Key: "market", Label: "市場動向", Color: "#F59E0B"},
	{Key: "technology", Label: "テクノロジー", Color: "#8B5CF6"},
	{Key: "regulation", Label: "法規制", Color: "#3B82F6"},
}

var NoteTemplates = []Label{
	{Key: "earnings_analysis", Label: "決算分析", Description: "四半期・通期決算の分析ノート"},
	{Key: "midterm_plan_analysis", Label: "中計分析", Description: "中期経営計画の分析ノート"},
	{Key: "competitor_comparison", Label: "競合比較", Description: "複数社の横串比較ノート"},
	{Key: "free_form", Label: "自由記述", Description: "テンプレートなしの自由記述"},
}

// =============================================================================
// COLORS
// =============================================================================

// CompanyColors are brand colors used for chart series.
var CompanyColors = map[string]string{
	"litalico":    "#00A5E3",
	"welbe":       "#E85298",
	"cocoruport":  "#4CAF50",
	"spool":       "#FF6B35",
	"sms":         "#1E3A5F",
	"persol":      "#0066CC",
	"pasona":      "#003399",
	"copel":       "#FF9900",
	"nd_software": "#2E7D32",
	"kanamic":     "#1565C0",
	"sorust":      "#7B1FA2",
	"care21":      "#C62828",
	"saint_care":  "#00695C",
	"unimat":      "#4E342E",
	"medley":      "#1A237E",
	"visional":    "#212121",
	"recruit":     "#FF0000",
	"kaien":       "#3F51B5",
	"startline":   "#009688",
}

// SeriesPalette colors comparison rows that have no brand color.
var SeriesPalette = []string{"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899"}

// ServiceColors color the stacked facility count chart.
var ServiceColors = map[string]string{
	"放課後等デイサービス": "#3B82F6",
	"児童発達支援":     "#8B5CF6",
	"就労継続支援B型":   "#10B981",
	"就労継続支援A型":   "#06B6D4",
	"就労移行支援":     "#F59E0B",
	"生活介護":       "#EF4444",
	"共同生活援助":     "#EC4899",
	"計画相談支援":     "#6B7280",
	"居宅介護":       "#78716C",
}

// =============================================================================
// LOOKUPS
// =============================================================================

func lookup(table []Label, key string) Label {
	for _, l := range table {
		if l.Key == key {
			return l
		}
	}
	return Label{Key: key, Label: key, Color: FallbackColor}
}

// CategoryLabel returns the label of a company category.
func CategoryLabel(c Category) Label { return lookup(Categories, string(c)) }

// ThreatLabel returns the label of a threat level.
func ThreatLabel(t ThreatLevel) Label {
	if !t.Valid() {
		return Label{Key: "", Label: "—", Color: FallbackColor}
	}
	return ThreatLevels[t-1]
}

// PriorityLabel returns the label of a priority rank.
func PriorityLabel(p PriorityRank) Label { return lookup(PriorityRanks, string(p)) }

// HistoryLabel returns the label of a history category.
func HistoryLabel(c HistoryCategory) Label { return lookup(HistoryCategories, string(c)) }

// GrowthDriverLabel returns the label of a growth driver.
func GrowthDriverLabel(g GrowthDriver) Label { return lookup(GrowthDrivers, string(g)) }

// TrendLabel returns the label of a trend category.
func TrendLabel(c TrendCategory) Label { return lookup(TrendCategories, string(c)) }

// NoteTemplateLabel returns the label of a note template.
func NoteTemplateLabel(n NoteTemplate) Label { return lookup(NoteTemplates, string(n)) }

// CompanyColor returns the chart color for a company id.
func CompanyColor(id string) string {
	if c, ok := CompanyColors[id]; ok {
		return c
	}
	return FallbackColor
}

// ServiceColor returns the chart color for a service type.
func ServiceColor(service string) string {
	if c, ok := ServiceColors[service]; ok {
		return c
	}
	return FallbackColor
}

// categoryOrder is the position of a category in display order.
func categoryOrder(c Category) int {
	for i, l := range Categories {
		if l.Key == string(c) {
			return i
		}
	}
	return len(Categories)
}

// priorityOrder ranks S highest (0).
func priorityOrder(p PriorityRank) int {
	for i, l := range PriorityRanks {
		if l.Key == string(p) {
			return i
		}
	}
	return len(PriorityRanks)
}
