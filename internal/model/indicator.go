package model

// Indicator identifies one economic metric by its World Bank series code.
// The three instances below are fixed at startup and never mutated.
type Indicator struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var (
	GDP        = Indicator{Code: "NY.GDP.MKTP.CD", Label: "GDP (current US$)"}
	Population = Indicator{Code: "SP.POP.TOTL", Label: "Population"}
	Inflation  = Indicator{Code: "FP.CPI.TOTL.ZG", Label: "Inflation (CPI, annual %)"}
)

// Indicators lists the dashboard's indicators in display order.
var Indicators = []Indicator{GDP, Population, Inflation}
