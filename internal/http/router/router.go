package router

import (
	"encoding/json"
	"net/http"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/database"
	"github.com/fourloop/sourceflow/internal/http/handler"
	"github.com/fourloop/sourceflow/internal/http/middleware"
	"github.com/fourloop/sourceflow/internal/metrics"
	"github.com/fourloop/sourceflow/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	rateLimiter    *middleware.RateLimiter
	requestHandler *handler.RequestHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	requestHandler *handler.RequestHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		rateLimiter:    rateLimiter,
		requestHandler: requestHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware. Logging wraps Recovery so panics still get an access line.
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger, rt.requestHandler.InternalServerError))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	if rt.cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(rt.rateLimiter.LimitByIP)

	// Machine-readable endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

		r.Get("/health", rt.health)
		r.Get("/health/db", rt.healthDB)
		r.Get("/health/ready", rt.healthReady)

		if rt.cfg.Metrics.Enabled {
			r.Method(http.MethodGet, rt.cfg.Metrics.Path, metrics.Handler())
		}
	})

	r.Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	h := rt.requestHandler
	r.Get("/", h.Home)
	r.Route("/requests", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/new", h.New)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Show)
			r.Get("/edit", h.Edit)
			r.Post("/update", h.Update)
			r.Post("/notes", h.AddNote)
			r.Post("/delete", h.Delete)
		})
	})

	r.NotFound(h.NotFound)

	return r
}

// health is the liveness probe
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// healthDB reports database reachability with connection pool stats
func (rt *Router) healthDB(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"driver":  rt.cfg.Database.Driver,
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			"max_idle_closed":      stats.MaxIdleClosed,
			"max_lifetime_closed":  stats.MaxLifetimeClosed,
		},
	})
}

// healthReady is the readiness probe across all dependencies
func (rt *Router) healthReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	status := http.StatusOK

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	respondJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
