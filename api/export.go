/*
export.go - XLSX downloads of the comparison and ranking tables

PURPOSE:
  Analysts paste the comparison table into their own decks. The export
  writes the same rows the JSON endpoints return, with raw numbers in the
  cells (millions of JPY, percentages) so spreadsheets can compute on
  them. Missing values are left blank rather than written as "—".

WORKBOOKS:
  Comparison: 財務比較, 戦略比較, 沿革 sheets
  Ranking:    売上ランキング sheet

  The builders are shared by the HTTP handlers and the export CLI command.

SEE ALSO:
  - handlers.go: Compare, RevenueRanking (JSON equivalents)
  - cmd/server/main.go: export command
*/
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/welfare-intel/welfare"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetFinancials = "財務比較"
	sheetStrategies = "戦略比較"
	sheetTimeline   = "沿革"
	sheetRanking    = "売上ランキング"
)

// =============================================================================
// WORKBOOK BUILDERS
// =============================================================================

// CompareWorkbook renders a comparison. A placeholder comparison still
// produces the header rows.
func CompareWorkbook(cmp welfare.Comparison) (*excelize.File, error) {
	wb := newWorkbook(sheetFinancials)

	fin := wb.sheet(sheetFinancials)
	fin.header("企業", "年度", "売上高(百万円)", "営業利益(百万円)", "純利益(百万円)", "営業利益率(%)", "従業員数", "拠点数", "売上高YoY(%)")
	for _, row := range cmp.Financials {
		fin.row(
			row.Name,
			blankIfEmpty(row.Year),
			nullDecimal(row.Revenue),
			nullDecimal(row.OperatingProfit),
			nullDecimal(row.NetIncome),
			optFloat(row.OperatingMargin),
			optInt(row.Employees),
			optInt(row.Facilities),
			optFloat(row.RevenueYoY),
		)
	}
	fin.widths(18, 10, 16, 16, 16, 14, 10, 10, 14)

	strat := wb.sheet(sheetStrategies)
	strat.header("企業", "中期経営計画", "期間", "重点戦略", "成長ドライバー")
	for _, s := range cmp.Strategies {
		titles := make([]string, len(s.KeyStrategies))
		for i, k := range s.KeyStrategies {
			titles[i] = k.Title
		}
		drivers := make([]string, len(s.Drivers))
		for i, d := range s.Drivers {
			drivers[i] = d.Label
		}
		strat.row(s.Name, blankIfEmpty(s.PlanName), blankIfEmpty(s.Period),
			strings.Join(titles, "\n"), strings.Join(drivers, ", "))
	}
	strat.widths(18, 24, 14, 48, 28)

	tl := wb.sheet(sheetTimeline)
	tl.header("時期", "企業", "区分", "出来事", "説明")
	for _, e := range cmp.Timeline {
		tl.row(e.When, e.CompanyName, e.CategoryLabel.Label, e.Title, e.Description)
	}
	tl.widths(12, 18, 12, 32, 60)

	return wb.finish()
}

// RankingWorkbook renders the revenue ranking.
func RankingWorkbook(rows []welfare.RankingRow) (*excelize.File, error) {
	wb := newWorkbook(sheetRanking)

	s := wb.sheet(sheetRanking)
	s.header("順位", "企業", "年度", "売上高(百万円)", "営業利益(百万円)", "営業利益率(%)", "売上高YoY(%)", "シェア(%)")
	for _, r := range rows {
		s.row(r.Rank, r.Name, r.Year,
			r.Revenue.InexactFloat64(),
			r.OperatingProfit.InexactFloat64(),
			r.OperatingMargin,
			optFloat(r.RevenueYoY),
			r.Share,
		)
	}
	s.widths(6, 18, 10, 16, 16, 14, 14, 10)

	return wb.finish()
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportCompare downloads the comparison for ?ids= or ?preset=.
func (h *Handler) ExportCompare(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	ids, err := h.selection(r, c)
	if err != nil {
		writeDomainError(w, "Invalid selection", err)
		return
	}
	f, err := CompareWorkbook(welfare.Compare(c, ids, h.Options.Compare))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	h.writeWorkbook(w, "compare.xlsx", f)
}

// ExportRanking downloads the revenue ranking.
func (h *Handler) ExportRanking(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w)
	if !ok {
		return
	}
	f, err := RankingWorkbook(welfare.RevenueRanking(c, h.Options.RankingExclude))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	h.writeWorkbook(w, "revenue-ranking.xlsx", f)
}

func (h *Handler) writeWorkbook(w http.ResponseWriter, filename string, f *excelize.File) {
	defer f.Close()
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		// Headers are already sent.
		h.Log.Warn("writing workbook failed", zap.String("file", filename), zap.Error(err))
	}
}

// =============================================================================
// SHEET HELPERS
// =============================================================================

// workbook accumulates the first error so builders can write rows without
// checking every call.
type workbook struct {
	f      *excelize.File
	first  string
	bold   int
	err    error
	sheets map[string]*sheet
}

type sheet struct {
	wb   *workbook
	name string
	next int
}

func newWorkbook(first string) *workbook {
	wb := &workbook{f: excelize.NewFile(), first: first, sheets: map[string]*sheet{}}
	wb.err = wb.f.SetSheetName("Sheet1", first)
	if wb.err == nil {
		wb.bold, wb.err = wb.f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E5E7EB"}},
		})
	}
	return wb
}

func (wb *workbook) sheet(name string) *sheet {
	if s, ok := wb.sheets[name]; ok {
		return s
	}
	if wb.err == nil && name != wb.first {
		_, wb.err = wb.f.NewSheet(name)
	}
	s := &sheet{wb: wb, name: name, next: 1}
	wb.sheets[name] = s
	return s
}

func (wb *workbook) finish() (*excelize.File, error) {
	if wb.err != nil {
		wb.f.Close()
		return nil, wb.err
	}
	return wb.f, nil
}

func (s *sheet) header(titles ...string) {
	cells := make([]any, len(titles))
	for i, t := range titles {
		cells[i] = t
	}
	first := s.next
	s.row(cells...)
	if s.wb.err != nil {
		return
	}
	end, err := excelize.CoordinatesToCellName(len(titles), first)
	if err != nil {
		s.wb.err = err
		return
	}
	s.wb.err = s.wb.f.SetCellStyle(s.name, fmt.Sprintf("A%d", first), end, s.wb.bold)
}

func (s *sheet) row(cells ...any) {
	if s.wb.err != nil {
		return
	}
	s.wb.err = s.wb.f.SetSheetRow(s.name, fmt.Sprintf("A%d", s.next), &cells)
	s.next++
}

func (s *sheet) widths(widths ...float64) {
	for i, width := range widths {
		if s.wb.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			s.wb.err = err
			return
		}
		s.wb.err = s.wb.f.SetColWidth(s.name, col, col, width)
	}
}

// Cell values: nil leaves the cell blank.

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func optInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func blankIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
