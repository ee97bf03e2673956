package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the health check outside the rate limiter
func RegisterHealthRoutes(r *gin.Engine, s *Server) {
	r.GET("/api/health", s.handleHealth)
}

// handleHealth reports liveness and which optional stages are available
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"providers": len(s.searcher.ProviderNames()),
		"fetch":     s.searcher.CanFetch(),
		"summarize": s.searcher.CanSummarize(),
	})
}
