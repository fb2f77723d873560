// Package chartgen renders indicator line charts as PNG images and tracks
// one live chart handle per named surface.
package chartgen

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"

	"econdash/internal/format"
)

// ConfigError reports a chart targeted at a surface the host UI does not
// declare. This is an integration defect, not a data problem.
type ConfigError struct {
	Surface string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chart surface %q is not configured", e.Surface)
}

// Handle is one live rendered chart. It stays valid until Destroy.
type Handle struct {
	surface string
	title   string
	alt     string
	png     []byte
}

// Surface returns the surface this handle is bound to.
func (h *Handle) Surface() string { return h.surface }

// Title returns the chart title.
func (h *Handle) Title() string { return h.title }

// Alt returns the hover text for the rendered image: the latest formatted
// observation, or the no-data placeholder.
func (h *Handle) Alt() string { return h.alt }

// PNG returns the rendered image bytes.
func (h *Handle) PNG() []byte { return h.png }

// Renderer draws line charts onto a fixed set of named surfaces.
// At most one handle is live per surface at any time.
type Renderer struct {
	mu       sync.Mutex
	surfaces map[string]bool
	live     map[string]*Handle

	width  int
	height int
}

// NewRenderer declares the surface names charts may target.
func NewRenderer(surfaces ...string) *Renderer {
	set := make(map[string]bool, len(surfaces))
	for _, s := range surfaces {
		set[s] = true
	}
	return &Renderer{
		surfaces: set,
		live:     make(map[string]*Handle),
		width:    640,
		height:   320,
	}
}

// CreateLine renders a line chart for the given surface and registers its
// handle. The previous handle for the surface must have been destroyed first.
func (r *Renderer) CreateLine(surface string, years []int, values []float64, title string, tickFormat func(float64) string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.surfaces[surface] {
		return nil, &ConfigError{Surface: surface}
	}
	if _, ok := r.live[surface]; ok {
		return nil, fmt.Errorf("surface %q already has a live chart", surface)
	}
	if len(years) != len(values) {
		return nil, fmt.Errorf("chart %q: %d labels for %d values", surface, len(years), len(values))
	}

	xs := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(math.Round(f)))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return tickFormat(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: values,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart %q: %w", surface, err)
	}

	alt := format.NoData
	if len(values) > 0 {
		alt = fmt.Sprintf("%d: %s", years[len(years)-1], tickFormat(values[len(values)-1]))
	}

	h := &Handle{surface: surface, title: title, alt: alt, png: buf.Bytes()}
	r.live[surface] = h
	return h, nil
}

// Destroy releases a handle. Absent (nil or already released) handles are a no-op.
func (r *Renderer) Destroy(h *Handle) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live[h.surface] == h {
		delete(r.live, h.surface)
	}
}

// Get returns the live handle for a surface, if one exists.
func (r *Renderer) Get(surface string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.live[surface]
	return h, ok
}

// LiveCount reports how many handles are currently live.
func (r *Renderer) LiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
