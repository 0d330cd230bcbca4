package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	"github.com/shopspring/decimal"
)

type createShortageRequest struct {
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category"`
	Date            string          `json:"date"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Threshold       decimal.Decimal `json:"threshold"`
	Unit            string          `json:"unit"`
	Description     string          `json:"description"`
}

func (s *Server) CreateShortage(c *gin.Context) {
	var req createShortageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shortageSvc.Create(c.Request.Context(), shortagedomain.CreateRequest{
		ProductName:     strings.TrimSpace(req.ProductName),
		Category:        strings.TrimSpace(req.Category),
		Date:            strings.TrimSpace(req.Date),
		CurrentQuantity: req.CurrentQuantity,
		Threshold:       req.Threshold,
		Unit:            strings.TrimSpace(req.Unit),
		Description:     strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShortages(c *gin.Context) {
	var query struct {
		Date      string `form:"date"`
		Automatic string `form:"automatic"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	automatic, err := parseOptionalBool(query.Automatic)
	if err != nil {
		AbortWithError(c, newValidationError("automatic", "invalid_automatic", "invalid automatic"))
		return
	}

	resp, err := s.shortageSvc.List(c.Request.Context(), shortagedomain.ListRequest{
		Date:      strings.TrimSpace(query.Date),
		Automatic: automatic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteShortage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.shortageSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ResolveShortage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.shortageSvc.Resolve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
