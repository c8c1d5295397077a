package server

import (
	"time"

	"ticketflow/internal/cache"
	"ticketflow/internal/config"
	"ticketflow/internal/handlers"
	"ticketflow/internal/models"
	"ticketflow/internal/pipeline"
	"ticketflow/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo         *echo.Echo
	store        *store.TicketStore
	orchestrator *pipeline.Orchestrator
	config       *config.Config
	logger       zerolog.Logger
	listCache    *cache.Cache[[]models.Ticket]
}

// New creates a new server instance
func New(cfg *config.Config, st *store.TicketStore, orch *pipeline.Orchestrator, logger zerolog.Logger) *Server {
	return &Server{
		config:       cfg,
		store:        st,
		orchestrator: orch,
		logger:       logger,
		listCache:    cache.New[[]models.Ticket](),
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// API group with /api prefix
	api := s.echo.Group("/api")

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoints (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	s.echo.GET("/healthz/store", handlers.StoreHealthHandler(s.store))

	// API endpoints under /api prefix
	api.GET("/", handlers.RootHandler(s.config.Version))
	api.POST("/tickets", handlers.SubmitTicketHandler(s.store))
	api.GET("/tickets/pending", handlers.PendingTicketsHandler(s.store))
	api.GET("/tickets/processed", handlers.ProcessedTicketsHandler(s.store, s.listCache))
	api.POST("/tickets/process", handlers.ProcessTicketsHandler(s.orchestrator, s.listCache))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
