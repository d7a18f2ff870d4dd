package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/ask", s.handleAsk)
	s.router.GET("/healthz", s.handleHealth)

	api := http.StripPrefix("/api/v1", NewAPI(s.interactor, s.sessions, s.logger).Handler())
	s.router.Any("/api/v1/*path", gin.WrapH(api))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
