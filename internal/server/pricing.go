package server

import (
	"net/http"
	"strings"

	pricingdomain "github.com/bookwise/bookwise/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

type calculatePriceRequest struct {
	OfferingID      string `json:"offering_id"`
	Quantity        int    `json:"quantity"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	CustomerSegment string `json:"customer_segment"`
	VariantID       string `json:"variant_id"`
}

func (s *Server) CalculatePrice(c *gin.Context) {
	var req calculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.CalculatePrice(c.Request.Context(), pricingdomain.CalculationRequest{
		OfferingID:      strings.TrimSpace(req.OfferingID),
		Quantity:        req.Quantity,
		Date:            strings.TrimSpace(req.Date),
		Time:            strings.TrimSpace(req.Time),
		CustomerSegment: strings.TrimSpace(req.CustomerSegment),
		VariantID:       strings.TrimSpace(req.VariantID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
