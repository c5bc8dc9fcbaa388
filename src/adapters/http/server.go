package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/helper/config"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResourceService is what the handlers need from services/resources.
type ResourceService interface {
	GetAccount(ctx context.Context, opaqueID string) (*domain.Account, error)
	GetStatus(ctx context.Context, opaqueID string) (*domain.Status, error)
	RegisterApplication(ctx context.Context, registration domain.ApplicationRegistration) (*domain.RegisteredApplication, error)
}

// Server representa o servidor HTTP da API de cliente
type Server struct {
	logger          *slog.Logger
	server          *http.Server
	router          *mux.Router
	port            int
	resourceService ResourceService
}

func NewServer(
	logger *slog.Logger,
	cfg config.ServerConfig,
	resourceService ResourceService,
) *Server {
	server := &Server{
		router:          newRouter(),
		port:            cfg.Port,
		logger:          logger,
		resourceService: resourceService,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Rotas de leitura
	server.router.HandleFunc("/api/v1/accounts/{id}", server.GetAccount).Methods(http.MethodGet)
	server.router.HandleFunc("/api/v1/statuses/{id}", server.GetStatus).Methods(http.MethodGet)

	// Rotas de escrita
	server.router.HandleFunc("/api/v1/apps", server.RegisterApplication).Methods(http.MethodPost)

	// Operacional
	server.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	server.router.HandleFunc("/health", server.Health).Methods(http.MethodGet)

	return server
}

// newRouter matches on the escaped path and never cleans it: ids are
// percent-encoded URIs and must reach the handlers still encoded.
func newRouter() *mux.Router {
	return mux.NewRouter().
		UseEncodedPath().
		SkipClean(true)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorDTO{Error: message})
}
