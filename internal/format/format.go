// Package format holds the display formatters for indicator values.
// All functions are pure; missing values (NaN/Inf) render as NoData.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoData is the placeholder shown wherever a value is absent.
const NoData = "N/A"

var printer = message.NewPrinter(language.English)

// Number renders a locale-grouped number with at most maxFrac fraction digits.
func Number(v float64, maxFrac int) string {
	if !isFinite(v) {
		return NoData
	}
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(maxFrac)))
}

// CurrencyUSD renders "$" followed by the grouped integer amount.
func CurrencyUSD(v float64) string {
	if !isFinite(v) {
		return NoData
	}
	return "$" + printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// CompactBig scales a magnitude into K/M/B/T form with one decimal digit.
// Values under 1000 (and non-finite values) pass through unsuffixed.
func CompactBig(v float64) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return strconv.FormatFloat(v/1e12, 'f', 1, 64) + "T"
	case abs >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', 1, 64) + "B"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent renders a rate with one fixed decimal and a percent sign.
func Percent(v float64) string {
	if !isFinite(v) {
		return NoData
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
