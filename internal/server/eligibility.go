package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	quotedomain "github.com/smallbiznis/covara/internal/quote/domain"
)

func (s *Server) CheckEligibility(c *gin.Context) {
	var req quotedomain.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	report, err := s.quoteSvc.CheckEligibility(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
