package model

const (
	// YearsBack bounds each series to the most recent years, keeping chart
	// width and API payloads small while leaving enough history for a trend.
	YearsBack = 12

	// MinPoints is the minimum series length worth rendering as a line.
	MinPoints = 2
)

// Point is one year's observation for a single indicator-country pair.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is an ordered run of observations, strictly ascending by year,
// at most YearsBack long. It is produced fresh on every load and replaced,
// never mutated in place. Years may have gaps; values are never missing.
type Series []Point

// Latest returns the most recent observation, if any.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Years returns the year of each point in order.
func (s Series) Years() []int {
	ys := make([]int, len(s))
	for i, p := range s {
		ys[i] = p.Year
	}
	return ys
}

// Values returns the value of each point in order.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s))
	for i, p := range s {
		vs[i] = p.Value
	}
	return vs
}
