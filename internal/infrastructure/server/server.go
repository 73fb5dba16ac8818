package server

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/api/http"
	"github.com/adi-os/plugin-registry/internal/api/middleware"
	"github.com/adi-os/plugin-registry/internal/domain/registry"
	"github.com/adi-os/plugin-registry/internal/infrastructure/config"
	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	store   *registry.Store
	counter *registry.DownloadCounter
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing registry server",
		zap.String("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Initialize storage
	store := registry.New(cfg.Storage.DataDir, logger)
	if err := store.Init(); err != nil {
		return nil, err
	}
	logger.Info("Storage initialized", zap.String("root", store.Root()))

	// Background download counting
	counter := registry.NewDownloadCounter(store, logger)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := http.NewHandlers(store, counter, metrics, logger)

	registerRoutes(router, handlers, metrics, cfg.Upload.MaxBytes)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		store:   store,
		counter: counter,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func registerRoutes(router *gin.Engine, handlers *http.Handlers, metrics *monitoring.Metrics, maxUploadBytes int64) {
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/index.json", handlers.GetIndex)
		v1.GET("/search", handlers.Search)

		v1.GET("/packages/:id/:version", handlers.GetPackageVersion)
		v1.GET("/packages/:id/:version/:platform", handlers.DownloadPackageArtifact)

		v1.GET("/plugins/:id/:version", handlers.GetPluginVersion)
		v1.GET("/plugins/:id/:version/:platform", handlers.DownloadPluginArtifact)

		publish := v1.Group("/publish", maxBody(maxUploadBytes))
		{
			publish.POST("/packages/:id/:version/:platform", handlers.PublishPackage)
			publish.POST("/plugins/:id/:version/:platform", handlers.PublishPlugin)
		}
	}
}

// maxBody caps the request body read by publish handlers.
func maxBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = nethttp.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// Router exposes the configured gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Addr()
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	// Drain pending download counts before exit.
	s.counter.Close()

	// Sync logger before exit
	s.logger.Sync()

	return nil
}
