/*
handlers.go - HTTP API handlers for the welfare market dashboard

PURPOSE:
  Exposes the welfare catalog via a read-only REST API. Handles HTTP
  request parsing and JSON serialization, and delegates every derivation
  to the welfare package.

ENDPOINTS:
  Dataset:
    GET /api/health                          Liveness and served snapshot
    GET /api/dataset                         Snapshot identity and counts
    GET /api/dataset/report                  Consistency report
    POST /api/dataset/reload                 Reload from the dataset directory

  Companies:
    GET /api/companies                       List (?category=&q=&sort=&dir=&full_data=)
    GET /api/companies/{id}                  Profile with latest financials
    GET /api/companies/{id}/financials       Fiscal years with YoY
    GET /api/companies/{id}/timeline         History events
    GET /api/companies/{id}/simulate         PL simulator (?preset= or per-line %)

  Comparison:
    GET /api/compare                         ?ids=a,b or ?preset=
    GET /api/compare/presets                 Named selections
    GET /api/rankings/revenue                Revenue ranking

  Market:
    GET /api/market/kpis                     KPI cards
    GET /api/market/facilities               Stacked facility counts (?services=)
    GET /api/market/history                  Welfare history timeline
    GET /api/facilities                      Service types
    GET /api/facilities/{service}            Facility analysis
    GET /api/facilities/{service}/tooltip    Chart tooltip (?year=)
    GET /api/reward-revisions                Cross-service revisions (?category=)

  Reference:
    GET /api/trends, /api/notes, /api/glossary, /api/disabilities[/{id}]

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Data: the memory store holding the current Catalog
  - Options: comparison limits and ranking exclusions from config
  - Reloader: optional, set when serving a dataset directory

  Each request takes the current Catalog once and works on it; a reload
  during the request does not affect the response.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid query parameter
  - 404: Unknown company, service or disability
  - 422: Business plan cannot be simulated
  - 503: No dataset loaded yet
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response envelopes
  - presets.go: Named comparison selections
  - export.go: XLSX downloads
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/welfare-intel/analytics"
	"github.com/warp/welfare-intel/rewards"
	"github.com/warp/welfare-intel/store/memory"
	"github.com/warp/welfare-intel/welfare"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options tunes the comparison and ranking views.
type Options struct {
	Compare        welfare.CompareOptions
	RankingExclude []string
}

// DefaultOptions returns the dashboard's defaults.
func DefaultOptions() Options {
	return Options{
		Compare:        welfare.DefaultCompareOptions(),
		RankingExclude: welfare.DefaultRankingExclude,
	}
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Data     *memory.Memory
	Options  Options
	Log      *zap.Logger
	Reloader *Reloader
}

// NewHandler creates a new handler over the given store.
func NewHandler(data *memory.Memory, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Data: data, Options: opts, Log: logger}
}

// catalog returns the current catalog or writes 503.
func (h *Handler) catalog(w http.ResponseWriter) (*welfare.Catalog, bool) {
	c, err := h.Data.Current()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Dataset not loaded", err)
		return nil, false
	}
	return c, true
}

// =============================================================================
// DATASET HANDLERS
// =============================================================================

// Health reports liveness. It answers 200 even before the first load.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.Data.Status()
	status := "ok"
	if st.SnapshotID == "" {
		status = "empty"
	}
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:     status,
		SnapshotID: st.SnapshotID,
		SwappedAt:  st.SwappedAt,
		Versions:   st.Versions,
	})
}

// GetDataset describes the served snapshot.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	snap := c.Snapshot()
	dto := DatasetDTO{
		ID:       snap.ID,
		Name:     snap.Name,
		Version:  snap.Version,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Counts:   snap.Counts(),
		Valid:    true,
	}
	if report, err := h.Data.Report(); err == nil {
		dto.Valid = report.Valid
		dto.Summary = report.Summary
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDatasetReport returns the consistency report of the served snapshot.
func (h *Handler) GetDatasetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Data.Report()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Dataset not loaded", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ReloadDataset reloads the dataset directory and returns the new report.
func (h *Handler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	if h.Reloader == nil {
		writeError(w, http.StatusConflict, "Reload not available when serving a compiled database", nil)
		return
	}
	report, err := h.Reloader.RunNow(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

var companySortKeys = map[string]bool{
	welfare.SortCategory: true,
	welfare.SortName:     true,
	welfare.SortThreat:   true,
	welfare.SortPriority: true,
	welfare.SortRevenue:  true,
}

// ListCompanies returns the filtered and sorted company list.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	q := r.URL.Query()

	sortKey := q.Get("sort")
	if sortKey != "" && !companySortKeys[sortKey] {
		writeError(w, http.StatusBadRequest, "Invalid sort key", &analytics.InputError{
			Field: "sort", Value: sortKey, Reason: "use category, name, threat, priority or revenue",
		})
		return
	}
	fullData, err := parseBool(q, "full_data")
	if err != nil {
		writeDomainError(w, "Invalid full_data", err)
		return
	}
	category := q.Get("category")
	if category == "" {
		category = "all"
	}

	query := welfare.ListQuery{
		Category:     category,
		Search:       q.Get("q"),
		Sort:         analytics.SortState{Key: sortKey, Dir: analytics.ParseSortDir(q.Get("dir"))},
		FullDataOnly: fullData,
	}
	cards := welfare.ListCompanies(c, query)
	if cards == nil {
		cards = []welfare.CompanyCard{}
	}

	writeJSON(w, http.StatusOK, CompanyListDTO{
		Companies:  cards,
		Total:      len(cards),
		Category:   category,
		Sort:       sortKey,
		Dir:        string(query.Sort.Dir),
		Categories: welfare.Categories,
	})
}

// GetCompany returns a company profile.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	profile, err := welfare.CompanyProfile(c, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get company", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetFinancials returns a company's fiscal years with per-year YoY.
func (h *Handler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	series, err := welfare.Financials(c, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get financials", err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// GetTimeline returns a company's history events in date order.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	events, err := welfare.CompanyTimeline(c, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// simulatorParams are the query keys read as percentage adjustments.
var simulatorParams = []string{
	welfare.ParamRevenue,
	welfare.ParamCOGS,
	welfare.ParamPersonnel,
	welfare.ParamAdvertising,
	welfare.ParamOtherSGA,
}

// Simulate runs the PL simulator on a company's business plan. A preset
// wins over per-line adjustments.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	var (
		sim welfare.Simulation
		err error
	)
	if preset := q.Get("preset"); preset != "" {
		sim, err = welfare.SimulateCompanyPreset(c, id, preset)
	} else {
		adj := welfare.Adjustments{}
		for _, key := range simulatorParams {
			raw := q.Get(key)
			if raw == "" {
				continue
			}
			v, perr := strconv.ParseFloat(raw, 64)
			if perr != nil {
				writeDomainError(w, "Invalid adjustment", &analytics.InputError{
					Field: key, Value: raw, Reason: "not a number",
				})
				return
			}
			adj[key] = v
		}
		sim, err = welfare.SimulateCompany(c, id, adj)
	}
	if err != nil {
		writeDomainError(w, "Failed to simulate", err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

// =============================================================================
// COMPARISON HANDLERS
// =============================================================================

// Compare builds the side-by-side comparison. Fewer than the minimum
// selection yields the placeholder, not an error.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	ids, err := h.selection(r, c)
	if err != nil {
		writeDomainError(w, "Invalid selection", err)
		return
	}
	writeJSON(w, http.StatusOK, welfare.Compare(c, ids, h.Options.Compare))
}

// selection reads ?ids= (comma separated or repeated), falling back to
// ?preset=.
func (h *Handler) selection(r *http.Request, c *welfare.Catalog) ([]string, error) {
	q := r.URL.Query()
	ids := splitList(q["ids"]...)
	if len(ids) > 0 {
		return ids, nil
	}
	name := q.Get("preset")
	if name == "" {
		return nil, nil
	}
	p, ok := findPreset(name)
	if !ok {
		return nil, &analytics.InputError{Field: "preset", Value: name, Reason: "unknown preset"}
	}
	return resolvePreset(p, c, h.Options.Compare).Available, nil
}

// RevenueRanking ranks companies by latest revenue.
func (h *Handler) RevenueRanking(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	rows := welfare.RevenueRanking(c, h.Options.RankingExclude)
	if rows == nil {
		rows = []welfare.RankingRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// =============================================================================
// MARKET HANDLERS
// =============================================================================

// MarketKPIs returns the market KPI cards.
func (h *Handler) MarketKPIs(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, welfare.MarketKPIs(c.Market()))
}

// MarketFacilities returns the stacked facility chart for ?services=.
func (h *Handler) MarketFacilities(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, welfare.BuildFacilityStack(c.Market().FacilityCountsByType, welfare.StackQuery{
		Services: splitList(q["services"]...),
		Toggle:   splitList(q["toggle"]...),
	}))
}

// MarketHistory returns the welfare history timeline.
func (h *Handler) MarketHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, welfare.WelfareHistory(c.Market()))
}

// ListFacilities returns the service types with a facility analysis.
func (h *Handler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, welfare.ServiceSummaries(c))
}

// GetFacility returns the analysis of one service type.
func (h *Handler) GetFacility(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	f, err := c.Facility(chi.URLParam(r, "service"))
	if err != nil {
		writeDomainError(w, "Failed to get facility analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, welfare.FacilityView(f))
}

// FacilityTooltip returns the growth chart tooltip for ?year=.
func (h *Handler) FacilityTooltip(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	f, err := c.Facility(chi.URLParam(r, "service"))
	if err != nil {
		writeDomainError(w, "Failed to get facility analysis", err)
		return
	}
	raw := r.URL.Query().Get("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeDomainError(w, "Invalid year", &analytics.InputError{Field: "year", Value: raw, Reason: "not a year"})
		return
	}
	writeJSON(w, http.StatusOK, welfare.FacilityTooltip(f, year))
}

// RewardRevisions returns the cross-service revision timeline.
func (h *Handler) RewardRevisions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("category")
	category, valid := rewards.ParseCategory(raw)
	if !valid {
		writeDomainError(w, "Invalid category", &analytics.InputError{
			Field: "category", Value: raw, Reason: "unknown service category",
		})
		return
	}
	years := rewards.Timeline(welfare.RevisionCatalog(c), category)
	if years == nil {
		years = []rewards.YearGroup{}
	}
	writeJSON(w, http.StatusOK, RevisionTimelineDTO{
		Category:   category,
		Categories: rewards.Categories,
		Years:      years,
	})
}

// =============================================================================
// REFERENCE HANDLERS
// =============================================================================

// ListTrends returns industry trends filtered by ?category= and ?company=.
func (h *Handler) ListTrends(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, welfare.FilterTrends(c.Trends(), welfare.TrendQuery{
		Category:  q.Get("category"),
		CompanyID: q.Get("company"),
	}))
}

// ListNotes returns analysis notes, optionally for one ?company=.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, welfare.FilterNotes(c.Notes(), r.URL.Query().Get("company")))
}

// Glossary returns the KPI glossary.
func (h *Handler) Glossary(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Glossary())
}

// ListDisabilities returns the disability category summaries.
func (h *Handler) ListDisabilities(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	all := c.Disabilities()
	out := make([]welfare.DisabilitySummary, len(all))
	for i := range all {
		out[i] = all[i].Summarize()
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDisability returns one disability category.
func (h *Handler) GetDisability(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	d, err := c.Disability(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get disability category", err)
		return
	}
	writeJSON(w, http.StatusOK, DisabilityDTO{DisabilityCategory: d, Summary: d.Summarize()})
}

// =============================================================================
// HELPERS
// =============================================================================

// splitList flattens comma separated values, trimming blanks.
func splitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBool(q map[string][]string, key string) (bool, error) {
	vals := q[key]
	if len(vals) == 0 || vals[0] == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(vals[0])
	if err != nil {
		return false, &analytics.InputError{Field: key, Value: vals[0], Reason: "not a boolean"}
	}
	return b, nil
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case analytics.IsNotFound(err):
		return http.StatusNotFound
	case analytics.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, welfare.ErrNoRevenue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
