/*
presets.go - Named comparison selections

PURPOSE:

	The comparison page opens with a preset selection instead of an empty
	picker. Each preset is an ordered list of company ids; the ids that the
	served dataset does not contain are dropped when the preset is
	resolved, so a trimmed dataset never produces an error.

AVAILABLE PRESETS:

	default:        LITALICO vs ウェルビー (the page's initial selection)
	direct-leaders: the four largest direct competitors
	employment:     employment-transition operators
	welfare-saas:   welfare SaaS vendors
	platforms:      healthcare and HR platforms used as benchmarks

USAGE VIA API:

	GET /api/compare/presets
	GET /api/compare?preset=direct-leaders

ADDING NEW PRESETS:
 1. Add to 'presets' slice with ID, name, description and ids
 2. Keep ids in the order the table should show them

SEE ALSO:
  - handlers.go: Compare, ListPresets handlers
  - welfare/compare.go: selection normalization and gating
*/
package api

import (
	"net/http"

	"github.com/warp/welfare-intel/welfare"
)

// =============================================================================
// PRESET DEFINITIONS
// =============================================================================

// DefaultPreset is used by the comparison page when nothing is selected.
const DefaultPreset = "default"

var presets = []PresetDTO{
	{
		ID:          DefaultPreset,
		Name:        "標準比較",
		Description: "LITALICOとウェルビーの比較",
		CompanyIDs:  []string{"litalico", "welbe"},
	},
	{
		ID:          "direct-leaders",
		Name:        "直接競合 上位",
		Description: "障害福祉サービスを運営する上場大手",
		CompanyIDs:  []string{"litalico", "welbe", "cocoruport", "spool"},
	},
	{
		ID:          "employment",
		Name:        "就労移行支援",
		Description: "就労移行・定着支援の主要事業者",
		CompanyIDs:  []string{"welbe", "kaien", "cocoruport", "startline"},
	},
	{
		ID:          "welfare-saas",
		Name:        "福祉SaaS",
		Description: "請求・記録システムのベンダー",
		CompanyIDs:  []string{"kanamic", "nd_software", "care21"},
	},
	{
		ID:          "platforms",
		Name:        "プラットフォーム参考",
		Description: "ヘルスケア・人材プラットフォームのベンチマーク",
		CompanyIDs:  []string{"medley", "visional", "recruit"},
	},
}

// findPreset returns the preset with id.
func findPreset(id string) (PresetDTO, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return PresetDTO{}, false
}

// resolvePreset fills Available and Ready against the catalog.
func resolvePreset(p PresetDTO, c *welfare.Catalog, opts welfare.CompareOptions) PresetDTO {
	p.Available = []string{}
	for _, id := range p.CompanyIDs {
		if c.HasCompany(id) {
			p.Available = append(p.Available, id)
		}
	}
	p.Ready = len(p.Available) >= opts.Minimum()
	return p
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns every preset resolved against the served dataset.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	out := make([]PresetDTO, len(presets))
	for i, p := range presets {
		out[i] = resolvePreset(p, c, h.Options.Compare)
	}
	writeJSON(w, http.StatusOK, out)
}
