package server

import (
	"net/http"
	"strconv"
	"strings"

	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/gin-gonic/gin"
)

type createOfferingRequest struct {
	Name           string         `json:"name"`
	Description    *string        `json:"description"`
	BasePriceCents int64          `json:"base_price_cents"`
	Currency       *string        `json:"currency"`
	Active         *bool          `json:"active"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) CreateOffering(c *gin.Context) {
	var req createOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.offeringSvc.Create(c.Request.Context(), offeringdomain.CreateRequest{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		Currency:       req.Currency,
		Active:         req.Active,
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOfferings(c *gin.Context) {
	var query struct {
		Name    string `form:"name"`
		Active  string `form:"active"`
		SortBy  string `form:"sort_by"`
		OrderBy string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.offeringSvc.List(c.Request.Context(), offeringdomain.ListRequest{
		Name:    strings.TrimSpace(query.Name),
		Active:  active,
		SortBy:  strings.TrimSpace(query.SortBy),
		OrderBy: strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOfferingByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.offeringSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateOfferingRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	BasePriceCents *int64         `json:"base_price_cents"`
	Currency       *string        `json:"currency"`
	Active         *bool          `json:"active"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) UpdateOffering(c *gin.Context) {
	var req updateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.offeringSvc.Update(c.Request.Context(), offeringdomain.UpdateRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Name:           req.Name,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		Currency:       req.Currency,
		Active:         req.Active,
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ArchiveOffering(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.offeringSvc.Archive(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createVariantRequest struct {
	Name               string `json:"name"`
	PriceModifierCents int64  `json:"price_modifier_cents"`
	Active             *bool  `json:"active"`
}

func (s *Server) CreateOfferingVariant(c *gin.Context) {
	var req createVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.offeringSvc.CreateVariant(c.Request.Context(), strings.TrimSpace(c.Param("id")), offeringdomain.CreateVariantRequest{
		Name:               strings.TrimSpace(req.Name),
		PriceModifierCents: req.PriceModifierCents,
		Active:             req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOfferingVariants(c *gin.Context) {
	resp, err := s.offeringSvc.ListVariants(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalBool(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
