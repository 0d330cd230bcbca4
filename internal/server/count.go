package server

import (
	"net/http"
	"strings"

	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type upsertCountRequest struct {
	Name     string          `json:"name"`
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Note     string          `json:"note"`
}

func (s *Server) UpsertCount(c *gin.Context) {
	var req upsertCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.countSvc.Upsert(c.Request.Context(), countdomain.UpsertRequest{
		Phase:    countdomain.Phase(strings.TrimSpace(c.Param("phase"))),
		Name:     strings.TrimSpace(req.Name),
		Date:     strings.TrimSpace(req.Date),
		Quantity: req.Quantity,
		Unit:     strings.TrimSpace(req.Unit),
		Note:     strings.TrimSpace(req.Note),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCounts(c *gin.Context) {
	var query struct {
		Date string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.countSvc.List(c.Request.Context(), countdomain.ListRequest{
		Phase: countdomain.Phase(strings.TrimSpace(c.Param("phase"))),
		Date:  strings.TrimSpace(query.Date),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCount(c *gin.Context) {
	var query struct {
		Name string `form:"name"`
		Date string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.countSvc.Delete(c.Request.Context(), countdomain.DeleteRequest{
		Phase: countdomain.Phase(strings.TrimSpace(c.Param("phase"))),
		Name:  strings.TrimSpace(query.Name),
		Date:  strings.TrimSpace(query.Date),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
