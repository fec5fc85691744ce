package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	quotedomain "github.com/smallbiznis/covara/internal/quote/domain"
)

func (s *Server) CreateQuote(c *gin.Context) {
	var req quotedomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	result, err := s.quoteSvc.GenerateQuote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if d := result.Decline; d != nil {
		// An ineligible vehicle is a normal business outcome; only a
		// malformed request is the caller's error.
		status := http.StatusOK
		if d.ReasonCode == quotedomain.ReasonValidation {
			status = http.StatusBadRequest
		}
		c.JSON(status, d)
		return
	}
	c.JSON(http.StatusOK, result.Quote)
}
