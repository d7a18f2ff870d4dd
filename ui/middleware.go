package ui

import (
	"net/http"

	"askmydata/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.MaxMultipartMemory = s.maxUpload

	static, err := staticFS()
	if err != nil {
		s.logger.Error("static filesystem unavailable: %v", err)
	} else {
		s.router.StaticFS("/static", http.FS(static))
	}

	s.router.Use(middleware.EnsureSession())
}
