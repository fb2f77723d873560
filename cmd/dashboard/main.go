package main

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"econdash/config"
	"econdash/internal/catalog"
	"econdash/internal/chartgen"
	"econdash/internal/dashboard"
	"econdash/internal/gateway"
	"econdash/internal/logger"
	"econdash/internal/metrics"
	"econdash/internal/worldbank"
)

func main() {
	cfg := config.Load()
	log := logger.Init("dashboard", logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	log.Info("starting dashboard",
		"addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"default_country", cfg.DefaultCountry,
	)

	cat, err := catalog.Load(cfg.CountriesPath)
	if err != nil {
		log.Error("failed to load country catalog", "path", cfg.CountriesPath, "error", err)
		os.Exit(1)
	}
	log.Info("country catalog loaded", "countries", len(cat.Countries))

	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()

	client := worldbank.NewClient(cfg.WorldBankURL,
		worldbank.WithTimeout(cfg.HTTPTimeout),
		worldbank.WithLogger(log),
	)
	renderer := chartgen.NewRenderer(dashboard.Surfaces...)
	hub := gateway.NewHub(log, prom)
	orch := dashboard.New(client, renderer,
		dashboard.WithLogger(log),
		dashboard.WithMetrics(prom),
		dashboard.WithHealth(health),
		dashboard.WithNotify(hub.Broadcast),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the default country so the first page render has content.
	go orch.LoadAll(ctx, cfg.DefaultCountry)

	page := template.Must(template.New("page").Parse(tmplPage))

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data := pageData{View: orch.View(), Countries: cat.Countries}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			log.Error("render page", "error", err)
		}
	})

	// Form target: run a load session, then bounce back to the page.
	mux.HandleFunc("/load", func(w http.ResponseWriter, r *http.Request) {
		orch.LoadAll(r.Context(), pickCountry(r, cat, cfg.DefaultCountry))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	mux.HandleFunc("/api/load", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"POST required"}`, http.StatusMethodNotAllowed)
			return
		}
		country := pickCountry(r, cat, cfg.DefaultCountry)
		orch.LoadAll(r.Context(), country)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orch.View())
	})

	mux.HandleFunc("/api/view", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orch.View())
	})

	mux.HandleFunc("/api/countries", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cat.Countries)
	})

	mux.HandleFunc("/charts/", func(w http.ResponseWriter, r *http.Request) {
		surface := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/charts/"), ".png")
		h, ok := orch.Chart(surface)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(h.PNG())
	})

	mux.HandleFunc("/ws", hub.HandleWS)

	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("serving dashboard", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)
}

// pickCountry resolves the requested country: absent falls back to the
// default, unknown codes are rejected back to the default as well.
func pickCountry(r *http.Request, cat *catalog.Catalog, fallback string) string {
	country := strings.ToUpper(strings.TrimSpace(r.FormValue("country")))
	if country == "" || !cat.Has(country) {
		return fallback
	}
	return country
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
