package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeglass/tfoods/internal/manager"
)

// Server holds the state for the dev inspection API.
type Server struct {
	manager *manager.InstanceManager
	router  *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(mgr *manager.InstanceManager) *Server {
	r := gin.Default()
	s := &Server{
		manager: mgr,
		router:  r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/instances", s.handleInstances)
	s.router.GET("/v1/nodes", s.handleNodes)
	s.router.GET("/v1/node", s.handleNode)
	s.router.GET("/v1/resolve", s.handleResolve)
	s.router.GET("/v1/eat", s.handleEat)
	s.router.GET("/v1/index/stats", s.handleIndexStats)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
