// Package rest exposes the stats database over HTTP.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	router  *mux.Router
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, jobs *backfill.Service) *Server {
	handler := NewHandler(db)
	jobsHandler := NewJobsHandler(jobs)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Season statistics
	api.HandleFunc("/categories", handler.GetCategories).Methods("GET")
	api.HandleFunc("/stats/{category}/years", handler.GetCategoryYears).Methods("GET")
	api.HandleFunc("/stats/{category}/{year}", handler.GetSeasonStats).Methods("GET")

	// Players
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players/stats", handler.GetPlayerStats).Methods("GET")

	// Game results
	api.HandleFunc("/games", handler.GetGameResults).Methods("GET")

	// Scrape job operations
	api.HandleFunc("/scrape", jobsHandler.HandleEnqueue).Methods("POST")
	api.HandleFunc("/scrape/status", jobsHandler.HandleStatus).Methods("GET")
	api.HandleFunc("/scrape/jobs/{jobID}", jobsHandler.HandleGetJob).Methods("GET")

	return &Server{
		port:    port,
		router:  router,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Router exposes the route table, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
