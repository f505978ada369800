/*
format.go - Display formatting for derived figures

PURPOSE:
  Every view renders monetary amounts, percentages and missing figures the
  same way. Amounts in the dataset are millions of JPY and are scaled to
  百万 / 億 / 兆 for display.

  Missing figures always render as Dash, never as 0, NaN or Infinity.
*/
package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Dash is the placeholder rendered for any missing figure.
const Dash = "—"

// NotAvailable is the placeholder for a growth figure whose base is zero.
const NotAvailable = "N/A"

var (
	hundred     = decimal.NewFromInt(100)
	tenThousand = decimal.NewFromInt(10000)
	oneLakh     = decimal.NewFromInt(100000)

	jaPrinter = message.NewPrinter(language.Japanese)
)

// FormatRevenue renders a revenue amount given in millions of JPY.
//
//	>= 100,000 百万 -> whole 億
//	>=  10,000 百万 -> 億 with one decimal
//	otherwise       -> grouped 百万
func FormatRevenue(millions decimal.Decimal) string {
	switch {
	case millions.GreaterThanOrEqual(oneLakh):
		return millions.Div(hundred).StringFixed(0) + "億"
	case millions.GreaterThanOrEqual(tenThousand):
		return millions.Div(hundred).StringFixed(1) + "億"
	default:
		return FormatNumber(millions.InexactFloat64()) + "百万"
	}
}

// FormatCurrency renders an amount given in millions of JPY, switching to
// 兆 for amounts of one trillion yen and above.
func FormatCurrency(millions decimal.Decimal) string {
	trillion := decimal.NewFromInt(1000000)
	switch {
	case millions.GreaterThanOrEqual(trillion):
		return millions.Div(trillion).StringFixed(1) + "兆"
	case millions.GreaterThanOrEqual(hundred):
		return millions.Div(hundred).StringFixed(0) + "億"
	default:
		return millions.String() + "百万"
	}
}

// FormatOptionalRevenue renders Dash for a missing amount.
func FormatOptionalRevenue(millions decimal.NullDecimal) string {
	if !millions.Valid {
		return Dash
	}
	return FormatRevenue(millions.Decimal)
}

// FormatPercent renders a ratio with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatOptionalPercent renders Dash for nil.
func FormatOptionalPercent(v *float64) string {
	if v == nil {
		return Dash
	}
	return FormatPercent(*v)
}

// FormatGrowth renders a signed growth figure, e.g. "+4.2%".
// A nil figure renders as Dash.
func FormatGrowth(g *float64) string {
	if g == nil {
		return Dash
	}
	if *g > 0 {
		return "+" + FormatPercent(*g)
	}
	return FormatPercent(*g)
}

// FormatNumber renders v with Japanese digit grouping.
func FormatNumber(v float64) string {
	return jaPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatYearMonth renders "2024年4月", or "2024年" when month is zero.
func FormatYearMonth(year, month int) string {
	if month > 0 {
		return fmt.Sprintf("%d年%d月", year, month)
	}
	return fmt.Sprintf("%d年", year)
}
