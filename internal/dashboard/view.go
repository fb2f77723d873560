// Package dashboard coordinates the load flow: fetch all indicators,
// validate, and re-render KPIs, table rows, and charts as one consistent view.
package dashboard

import "econdash/internal/model"

// Chart surface names. These are the canvases the host page declares.
const (
	SurfaceGDP        = "gdp"
	SurfacePopulation = "population"
	SurfaceInflation  = "inflation"
)

// Surfaces lists the chart surfaces in display order.
var Surfaces = []string{SurfaceGDP, SurfacePopulation, SurfaceInflation}

// SurfaceFor maps an indicator to its chart surface.
func SurfaceFor(ind model.Indicator) string {
	switch ind.Code {
	case model.GDP.Code:
		return SurfaceGDP
	case model.Population.Code:
		return SurfacePopulation
	default:
		return SurfaceInflation
	}
}

// KPI is one headline slot: the latest value and its as-of year.
type KPI struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Value string `json:"value"`
	AsOf  string `json:"as_of"`
}

// TableRow is one summary table row.
type TableRow struct {
	Label string `json:"label"`
	Year  string `json:"year"`
	Value string `json:"value"`
}

// View is the complete rendered dashboard state. It is replaced atomically
// per load session and pushed to clients as-is.
type View struct {
	Country string     `json:"country"`
	Loading bool       `json:"loading"`
	Status  string     `json:"status"`
	Error   string     `json:"error"`
	KPIs    []KPI      `json:"kpis"`
	Rows    []TableRow `json:"rows"`
	Charts  []string   `json:"charts"`
	Session int64      `json:"session"`
}
