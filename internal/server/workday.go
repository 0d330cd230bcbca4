package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetWorkday(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	resp, err := s.workdaySvc.Load(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetWorkdaySummary renders the day report as plain text without archiving
// anything, so the operator can preview the close.
func (s *Server) GetWorkdaySummary(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	summary, err := s.workdaySvc.Summary(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.String(http.StatusOK, summary)
}

type finalizeWorkdayRequest struct {
	Date string `json:"date"`
}

func (s *Server) FinalizeWorkday(c *gin.Context) {
	var req finalizeWorkdayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.workdaySvc.Finalize(c.Request.Context(), strings.TrimSpace(req.Date))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
