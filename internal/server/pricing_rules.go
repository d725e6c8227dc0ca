package server

import (
	"net/http"
	"strings"

	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/gin-gonic/gin"
)

type createPricingRuleRequest struct {
	OfferingID  string                 `json:"offering_id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	PricingType ruledomain.PricingType `json:"pricing_type"`
	Priority    *int                   `json:"priority"`
	Conditions  *ruledomain.Conditions `json:"conditions"`
	Pricing     ruledomain.Pricing     `json:"pricing"`
}

func (s *Server) CreatePricingRule(c *gin.Context) {
	var req createPricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingRuleSvc.Create(c.Request.Context(), ruledomain.CreateRequest{
		OfferingID:  strings.TrimSpace(req.OfferingID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PricingType: req.PricingType,
		Priority:    req.Priority,
		Conditions:  req.Conditions,
		Pricing:     req.Pricing,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPricingRules(c *gin.Context) {
	var query struct {
		OfferingID      string `form:"offering_id"`
		IncludeInactive string `form:"include_inactive"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	includeInactive, err := parseOptionalBool(query.IncludeInactive)
	if err != nil {
		AbortWithError(c, newValidationError("include_inactive", "invalid_include_inactive", "invalid include_inactive"))
		return
	}

	resp, err := s.pricingRuleSvc.List(c.Request.Context(), ruledomain.ListRequest{
		OfferingID:      strings.TrimSpace(query.OfferingID),
		IncludeInactive: includeInactive != nil && *includeInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPricingRuleByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pricingRuleSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePricingRuleRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	PricingType *ruledomain.PricingType `json:"pricing_type"`
	Priority    *int                    `json:"priority"`
	Conditions  *ruledomain.Conditions  `json:"conditions"`
	Pricing     *ruledomain.Pricing     `json:"pricing"`
}

func (s *Server) UpdatePricingRule(c *gin.Context) {
	var req updatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingRuleSvc.Update(c.Request.Context(), ruledomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		PricingType: req.PricingType,
		Priority:    req.Priority,
		Conditions:  req.Conditions,
		Pricing:     req.Pricing,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivatePricingRule(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pricingRuleSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
