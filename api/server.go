/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request logging (logging.RequestLogger)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard front-end
  5. ETag:       Snapshot id as validator; If-None-Match answers 304

ROUTE GROUPS:
  /api/dataset/*        Snapshot identity, report, reload
  /api/companies/*      Company list, profile, financials, simulator
  /api/compare/*        Comparison, presets, XLSX export
  /api/rankings/*       Revenue ranking
  /api/market/*         Market KPIs, facility counts, welfare history
  /api/facilities/*     Per-service facility analysis
  /*                    Static files (frontend)

CACHING:
  Every response is derived from the immutable snapshot, so the snapshot
  id is a strong validator for all of them.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/welfare-intel/logging"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
	// StaticDir holds the built front-end. Empty tries ./web/dist.
	StaticDir string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag", "Content-Disposition"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(snapshotETag(h))

		r.Get("/health", h.Health)

		// Dataset routes
		r.Route("/dataset", func(r chi.Router) {
			r.Get("/", h.GetDataset)
			r.Get("/report", h.GetDatasetReport)
			r.Post("/reload", h.ReloadDataset)
		})

		// Company routes
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Get("/{id}", h.GetCompany)
			r.Get("/{id}/financials", h.GetFinancials)
			r.Get("/{id}/timeline", h.GetTimeline)
			r.Get("/{id}/simulate", h.Simulate)
		})

		// Comparison routes
		r.Route("/compare", func(r chi.Router) {
			r.Get("/", h.Compare)
			r.Get("/presets", h.ListPresets)
			r.Get("/export.xlsx", h.ExportCompare)
		})

		// Ranking routes
		r.Route("/rankings", func(r chi.Router) {
			r.Get("/revenue", h.RevenueRanking)
			r.Get("/revenue/export.xlsx", h.ExportRanking)
		})

		// Market routes
		r.Route("/market", func(r chi.Router) {
			r.Get("/kpis", h.MarketKPIs)
			r.Get("/facilities", h.MarketFacilities)
			r.Get("/history", h.MarketHistory)
		})

		// Facility routes
		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", h.ListFacilities)
			r.Get("/{service}", h.GetFacility)
			r.Get("/{service}/tooltip", h.FacilityTooltip)
		})

		r.Get("/reward-revisions", h.RewardRevisions)

		// Reference routes
		r.Get("/trends", h.ListTrends)
		r.Get("/notes", h.ListNotes)
		r.Get("/glossary", h.Glossary)
		r.Route("/disabilities", func(r chi.Router) {
			r.Get("/", h.ListDisabilities)
			r.Get("/{id}", h.GetDisability)
		})
	})

	// Serve static files (React app)
	// First try the configured dir, then ./web/dist, then next to the executable
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "./web/dist"
		if _, err := os.Stat(staticDir); os.IsNotExist(err) {
			exe, _ := os.Executable()
			staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
		}
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))

			// SPA routing: unknown paths serve index.html
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Welfare Intel</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Welfare Intel API</h1>
<p>The dashboard is not built yet. Run <code>cd web && npm install && npm run build</code></p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/dataset">/api/dataset</a> - Served snapshot</li>
<li><a href="/api/companies">/api/companies</a> - Companies</li>
<li><a href="/api/market/kpis">/api/market/kpis</a> - Market KPIs</li>
<li><a href="/api/facilities">/api/facilities</a> - Service types</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}

// snapshotETag tags responses with the served snapshot id and answers
// conditional GETs for an unchanged snapshot with 304.
func snapshotETag(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := h.Data.Status().SnapshotID
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			etag := `"` + id + `"`
			w.Header().Set("ETag", etag)
			if r.Method == http.MethodGet && r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
