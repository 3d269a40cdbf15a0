package server

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tfkr-ae/souk"
	"go.uber.org/zap"
)

// Server wraps the gin engine and the marketplace it serves.
type Server struct {
	router *gin.Engine
	market *souk.Marketplace
	logger *zap.Logger
}

// New creates a Server for the given marketplace and registers all routes.
func New(market *souk.Marketplace) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(market.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "psk", "packagename"},
		MaxAge:       12 * time.Hour,
	}))

	server := &Server{
		router: router,
		market: market,
		logger: market.Logger,
	}

	handlers := NewHandlers(market.Gateway, market.Catalog, market.Logger)

	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		api.GET("/catalog-assets/", handlers.ListCatalogAssets)
		api.GET("/packages/:package", handlers.GetPackage)
		api.POST("/create-package", handlers.CreatePackage)
		api.POST("/upload-asset", handlers.UploadAsset)
	}

	// Media files referenced by catalog records are served straight from the
	// asset root.
	router.Static("/assets", market.Assets.Root())

	return server
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on the configured address and port, blocking
// until the server stops.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.market.Config.DefaultAddress, s.market.Config.DefaultPort)
	s.logger.Info("marketplace server listening", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		return fmt.Errorf("running marketplace server on %s : %w", addr, err)
	}
	return nil
}

// requestLogger logs each request with zap after it completes.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
