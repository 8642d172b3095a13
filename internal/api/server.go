package api

import (
	"context"
	"net/http"
	"time"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/api/handlers"
	"example.com/ferramentas/internal/api/middleware"
	"example.com/ferramentas/internal/metrics"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	ledger     *service.LedgerService
	metrics    *metrics.Metrics
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, ledger *service.LedgerService, metricsCollector *metrics.Metrics) *Server {
	server := &Server{
		config:  cfg,
		ledger:  ledger,
		metrics: metricsCollector,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if s.config.CorsEnabled {
		router.Use(middleware.CORS(s.config.CorsOrigins))
	}

	// Register handlers
	handlers.NewRequesterHandler(s.ledger).RegisterRoutes(router)
	handlers.NewToolHandler(s.ledger).RegisterRoutes(router)
	handlers.NewMovementHandler(s.ledger).RegisterRoutes(router)
	handlers.NewSystemHandler(s.ledger, s.metrics, s.config.DB, s.config.Export).RegisterRoutes(router)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
