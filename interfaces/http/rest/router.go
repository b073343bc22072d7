package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"atlas-backend/infrastructure/di"
	"atlas-backend/interfaces/http/rest/handlers"
	"atlas-backend/interfaces/http/rest/middleware"
	"atlas-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and observability
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if cfg.EnableMetrics {
		router.Handle("/metrics", rt.container.Metrics.Handler())
	}

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		// Auth is opt-in: without a secret the API is open, matching
		// local development and the seed tool
		if cfg.JWTSecret != "" {
			validator, err := auth.NewJWTValidator(auth.JWTConfig{
				SecretKey: cfg.JWTSecret,
				Issuer:    cfg.JWTIssuer,
			})
			if err != nil {
				rt.logger.Fatal("Failed to create JWT validator", zap.Error(err))
			}
			r.Use(middleware.Authenticate(validator, rt.logger))
		}

		nodeHandler := handlers.NewNodeHandler(rt.container.CommandBus, rt.container.QueryBus, rt.logger)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", nodeHandler.CreateNode)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Put("/{nodeID}", nodeHandler.UpdateNode)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
			r.Get("/{nodeID}/children", nodeHandler.ListChildren)
		})

		queryHandler := handlers.NewQueryHandler(rt.container.QueryBus, rt.logger)
		r.Post("/query", queryHandler.Execute)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the store is reachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if _, err := rt.container.NodeRepo.Scan(req.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
