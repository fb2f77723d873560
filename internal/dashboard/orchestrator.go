package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"econdash/internal/chartgen"
	"econdash/internal/metrics"
	"econdash/internal/model"
	"econdash/internal/worldbank"
)

// Orchestrator owns the dashboard view and the three chart handles, and runs
// the load state machine: Idle -> Loading -> {Success, Empty, Failed} -> Idle.
// All mutable state is instance state; nothing is shared at package level.
type Orchestrator struct {
	client *worldbank.Client
	charts *chartgen.Renderer
	logger *slog.Logger
	prom   *metrics.Metrics
	health *metrics.HealthStatus
	notify func(View)

	// session numbers loads monotonically; a finishing session that is no
	// longer the latest discards its results instead of touching the view.
	session atomic.Int64

	mu      sync.Mutex
	view    View
	handles map[string]*chartgen.Handle
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics wires Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.prom = m }
}

// WithHealth wires the health status sink.
func WithHealth(h *metrics.HealthStatus) Option {
	return func(o *Orchestrator) { o.health = h }
}

// WithNotify registers a hook invoked with a view copy on every transition.
func WithNotify(fn func(View)) Option {
	return func(o *Orchestrator) { o.notify = fn }
}

// New creates an Orchestrator.
func New(client *worldbank.Client, charts *chartgen.Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		charts:  charts,
		logger:  slog.Default(),
		handles: make(map[string]*chartgen.Handle),
		view:    View{Status: "Pick a country to load indicators."},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// View returns a copy of the current view.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

// Chart returns the live chart handle for a surface, if any.
func (o *Orchestrator) Chart(surface string) (*chartgen.Handle, bool) {
	return o.charts.Get(surface)
}

// LoadAll runs one complete load session for the given country. The three
// indicator fetches run concurrently and the session proceeds only after all
// of them settle; the first failure's message is the one surfaced. Controls
// (the view's Loading flag) are released on every exit path.
func (o *Orchestrator) LoadAll(ctx context.Context, country string) {
	session := o.session.Add(1)
	start := time.Now()
	if o.prom != nil {
		o.prom.LoadsTotal.Inc()
	}

	o.transition(session, func(v *View) {
		v.Country = country
		v.Loading = true
		v.Status = "Loading indicators for " + country + "…"
		v.Error = ""
		v.Session = session
	})

	results := make([]model.Series, len(model.Indicators))

	// Plain errgroup: no short-circuit cancellation. Wait blocks until all
	// three settle and reports the first error.
	var g errgroup.Group
	for i, ind := range model.Indicators {
		i, ind := i, ind
		g.Go(func() error {
			fetchStart := time.Now()
			s, err := o.client.FetchSeries(ctx, country, ind)
			if o.prom != nil {
				o.prom.FetchDuration.Observe(time.Since(fetchStart).Seconds())
				outcome := "ok"
				if err != nil {
					outcome = "error"
				}
				o.prom.FetchesTotal.WithLabelValues(ind.Code, outcome).Inc()
			}
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Warn("load failed", "country", country, "session", session, "error", err)
		o.finish(session, start, "failed", func(v *View) {
			v.Status = ""
			v.Error = fmt.Sprintf("Failed to load dashboard: %v. Check connectivity or try another selection.", err)
		})
		return
	}

	gdp, pop, infl := results[0], results[1], results[2]
	if len(gdp) < model.MinPoints || len(pop) < model.MinPoints || len(infl) < model.MinPoints {
		o.logger.Info("load returned too little data",
			"country", country, "gdp", len(gdp), "pop", len(pop), "infl", len(infl))
		o.finish(session, start, "empty", func(v *View) {
			v.Status = ""
			v.Error = fmt.Sprintf("Not enough data for %s: each indicator needs at least %d yearly observations.",
				country, model.MinPoints)
		})
		return
	}

	o.renderSuccess(session, start, country, gdp, pop, infl)
}

// renderSuccess swaps the view content and the chart handles for the latest
// session. Prior handles are destroyed before their replacements are created.
func (o *Orchestrator) renderSuccess(session int64, start time.Time, country string, gdp, pop, infl model.Series) {
	bySurface := map[string]model.Series{
		SurfaceGDP:        gdp,
		SurfacePopulation: pop,
		SurfaceInflation:  infl,
	}

	o.mu.Lock()
	if session != o.session.Load() {
		o.mu.Unlock()
		o.logger.Info("discarding stale load session", "session", session, "country", country)
		return
	}

	for _, ind := range model.Indicators {
		surface := SurfaceFor(ind)
		if prev, ok := o.handles[surface]; ok {
			o.charts.Destroy(prev)
			delete(o.handles, surface)
		}
		s := bySurface[surface]
		h, err := o.charts.CreateLine(surface, s.Years(), s.Values(), ind.Label, tickFormatFor(ind))
		if err != nil {
			o.view.Loading = false
			o.view.Status = ""
			o.view.Error = fmt.Sprintf("Chart rendering failed: %v.", err)
			v := o.view
			o.mu.Unlock()
			o.logger.Error("chart render failed", "surface", surface, "error", err)
			o.afterFinish(start, "failed", v)
			return
		}
		o.handles[surface] = h
	}

	o.view.Loading = false
	o.view.Status = fmt.Sprintf("Updated %s at %s.", country, time.Now().Format("15:04:05"))
	o.view.Error = ""
	o.view.KPIs = kpiSlots(gdp, pop, infl)
	o.view.Rows = tableRows(gdp, pop, infl)
	o.view.Charts = append([]string(nil), Surfaces...)
	v := o.view
	o.mu.Unlock()

	o.afterFinish(start, "success", v)
}

// transition applies a view mutation and notifies, unless the session has
// been superseded.
func (o *Orchestrator) transition(session int64, mutate func(*View)) {
	o.mu.Lock()
	if session != o.session.Load() {
		o.mu.Unlock()
		return
	}
	mutate(&o.view)
	v := o.view
	o.mu.Unlock()

	if o.notify != nil {
		o.notify(v)
	}
}

// finish is the shared terminal step for the Empty and Failed branches:
// apply the branch's view mutation, re-enable controls, record metrics.
func (o *Orchestrator) finish(session int64, start time.Time, outcome string, mutate func(*View)) {
	o.transition(session, func(v *View) {
		mutate(v)
		v.Loading = false
	})
	o.recordOutcome(start, outcome)
}

// afterFinish notifies and records metrics for an already-applied terminal view.
func (o *Orchestrator) afterFinish(start time.Time, outcome string, v View) {
	if o.notify != nil {
		o.notify(v)
	}
	o.recordOutcome(start, outcome)
}

func (o *Orchestrator) recordOutcome(start time.Time, outcome string) {
	if o.prom != nil {
		o.prom.LoadOutcomes.WithLabelValues(outcome).Inc()
		o.prom.LoadDuration.Observe(time.Since(start).Seconds())
	}
	if o.health != nil {
		o.health.SetLastLoad(outcome)
	}
}
