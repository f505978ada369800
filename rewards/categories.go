package rewards

// =============================================================================
// SERVICE CATEGORIES
// =============================================================================

// Category groups service types for the cross-service timeline filter.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryChild        Category = "child"
	CategoryResidential  Category = "residential"
	CategoryEmployment   Category = "employment"
	CategoryConsultation Category = "consultation"
	CategoryVisit        Category = "visit"
)

// CategoryConfig is the display metadata of a category.
type CategoryConfig struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
	Color string   `json:"color"`
}

// Categories lists the filterable categories in display order.
var Categories = []CategoryConfig{
	{Key: CategoryChild, Label: "障害児通所", Color: "#3B82F6"},
	{Key: CategoryResidential, Label: "居住支援", Color: "#8B5CF6"},
	{Key: CategoryEmployment, Label: "訓練・就労", Color: "#10B981"},
	{Key: CategoryConsultation, Label: "相談支援", Color: "#F59E0B"},
	{Key: CategoryVisit, Label: "訪問系", Color: "#EC4899"},
}

// LookupCategory returns the config for key.
func LookupCategory(key Category) (CategoryConfig, bool) {
	for _, c := range Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryConfig{}, false
}

// ParseCategory accepts a known category key or "all". An empty string is
// treated as "all".
func ParseCategory(s string) (Category, bool) {
	if s == "" || s == string(CategoryAll) {
		return CategoryAll, true
	}
	if _, ok := LookupCategory(Category(s)); ok {
		return Category(s), true
	}
	return "", false
}
