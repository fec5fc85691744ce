package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) CoverageOptions(c *gin.Context) {
	opts, err := s.quoteSvc.CoverageOptions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": opts})
}
