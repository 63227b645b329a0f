package api

import (
	"github.com/gin-gonic/gin"

	"github.com/thanhnp/explorer-apis/internal/api/handlers"
	"github.com/thanhnp/explorer-apis/internal/api/middleware"
	"github.com/thanhnp/explorer-apis/internal/logger"
	"github.com/thanhnp/explorer-apis/internal/service"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine       *gin.Engine
	log          *logger.Logger
	blockHandler *handlers.BlockHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(blocks *service.BlockService, log *logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:       gin.New(),
		log:          log,
		blockHandler: handlers.NewBlockHandler(blocks),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	{
		api.GET("/blocks", r.blockHandler.List)
		api.GET("/block/:hash", r.blockHandler.GetBlock)
		api.GET("/block-index/:height", r.blockHandler.GetBlockIndex)
		api.GET("/rawblock/:hashOrHeight", r.blockHandler.GetRawBlock)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
