package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"table-admin/internal/schema"
)

type Config struct {
	Addr    string // e.g. ":3000"
	Version string
	Manager *schema.Manager
	Assets  AssetStore
}

type Server struct {
	httpServer *http.Server
	manager    *schema.Manager
	assets     AssetStore
	version    string
}

func New(cfg Config) *Server {
	s := &Server{
		manager: cfg.Manager,
		assets:  cfg.Assets,
		version: cfg.Version,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes builds the full handler: requestID -> logging -> recoverer -> headers -> router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestIDMiddleware,
		loggingMiddleware,
		middleware.Recoverer,
		securityHeadersMiddleware,
	)

	// Anything the API does not claim is the front-end's, whatever the method.
	spa := s.handleStatic()
	r.NotFound(spa)
	r.MethodNotAllowed(spa)

	r.Get("/health", s.HandleHealth)
	r.Get("/live", s.HandleLive)
	r.Get("/metrics", PrometheusMetricsHandler(s.manager.Connector()).ServeHTTP)

	r.Get("/api/tables", s.handleListTables)
	r.Post("/api/tables", s.handleCreateTable)
	r.Delete("/api/tables/{tableName}", s.handleDropTable)
	r.Delete("/api/tables/", s.handleDropTable)
	r.Post("/api/columns", s.handleAddColumn)
	r.Delete("/api/columns", s.handleDropColumn)

	return r
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
