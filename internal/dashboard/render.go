package dashboard

import (
	"strconv"

	"econdash/internal/format"
	"econdash/internal/model"
)

// kpiSlots builds the six KPI display slots (value + as-of year per
// indicator) from the latest point of each series. Empty series fill both
// slots with the no-data placeholder.
func kpiSlots(gdp, pop, infl model.Series) []KPI {
	return []KPI{
		kpiSlot(model.GDP, gdp, func(v float64) string { return "$" + format.CompactBig(v) }),
		kpiSlot(model.Population, pop, format.CompactBig),
		kpiSlot(model.Inflation, infl, format.Percent),
	}
}

func kpiSlot(ind model.Indicator, s model.Series, f func(float64) string) KPI {
	k := KPI{Code: ind.Code, Label: ind.Label, Value: format.NoData, AsOf: format.NoData}
	if p, ok := s.Latest(); ok {
		k.Value = f(p.Value)
		k.AsOf = strconv.Itoa(p.Year)
	}
	return k
}

// tableRows builds exactly three rows in fixed order (GDP, Population,
// Inflation). Rows are rebuilt wholesale, so rendering is idempotent.
func tableRows(gdp, pop, infl model.Series) []TableRow {
	return []TableRow{
		tableRow(model.GDP, gdp, format.CurrencyUSD),
		tableRow(model.Population, pop, func(v float64) string { return format.Number(v, 0) }),
		tableRow(model.Inflation, infl, format.Percent),
	}
}

func tableRow(ind model.Indicator, s model.Series, f func(float64) string) TableRow {
	r := TableRow{Label: ind.Label, Year: format.NoData, Value: format.NoData}
	if p, ok := s.Latest(); ok {
		r.Year = strconv.Itoa(p.Year)
		r.Value = f(p.Value)
	}
	return r
}

// tickFormatFor selects the axis tick formatter: compact magnitude for the
// big absolute series, fixed one-decimal percent for the rate.
func tickFormatFor(ind model.Indicator) func(float64) string {
	if ind.Code == model.Inflation.Code {
		return format.Percent
	}
	return format.CompactBig
}
