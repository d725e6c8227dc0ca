package server

import (
	"net/http"
	"strings"

	availabilitydomain "github.com/bookwise/bookwise/internal/availability/domain"
	"github.com/gin-gonic/gin"
)

type generateAvailabilityRequest struct {
	OfferingID     string                                         `json:"offering_id"`
	StartDate      string                                         `json:"start_date"`
	EndDate        string                                         `json:"end_date"`
	TimeSlots      []availabilitydomain.TemplateSlot              `json:"time_slots"`
	ExcludeDates   []string                                       `json:"exclude_dates"`
	SpecialPricing map[string]availabilitydomain.SpecialPricing   `json:"special_pricing"`
}

func (s *Server) GenerateAvailability(c *gin.Context) {
	var req generateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.availabilitySvc.Generate(c.Request.Context(), availabilitydomain.GenerateRequest{
		OfferingID:     strings.TrimSpace(req.OfferingID),
		StartDate:      strings.TrimSpace(req.StartDate),
		EndDate:        strings.TrimSpace(req.EndDate),
		TimeSlots:      req.TimeSlots,
		ExcludeDates:   req.ExcludeDates,
		SpecialPricing: req.SpecialPricing,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type checkAvailabilityRequest struct {
	OfferingID string `json:"offering_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Quantity   int    `json:"quantity"`
}

func (s *Server) CheckAvailability(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.availabilitySvc.Check(c.Request.Context(), availabilitydomain.CheckRequest{
		OfferingID: strings.TrimSpace(req.OfferingID),
		Date:       strings.TrimSpace(req.Date),
		StartTime:  strings.TrimSpace(req.StartTime),
		EndTime:    strings.TrimSpace(req.EndTime),
		Quantity:   req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAvailabilitySlots(c *gin.Context) {
	var query struct {
		OfferingID string `form:"offering_id"`
		StartDate  string `form:"start_date"`
		EndDate    string `form:"end_date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.availabilitySvc.ListSlots(c.Request.Context(), availabilitydomain.ListRequest{
		OfferingID: strings.TrimSpace(query.OfferingID),
		StartDate:  strings.TrimSpace(query.StartDate),
		EndDate:    strings.TrimSpace(query.EndDate),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type bookSlotRequest struct {
	OfferingID string `json:"offering_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	Delta      int    `json:"delta"`
}

func (s *Server) BookAvailabilitySlot(c *gin.Context) {
	var req bookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.availabilitySvc.UpdateSlotBooking(c.Request.Context(), availabilitydomain.BookRequest{
		OfferingID: strings.TrimSpace(req.OfferingID),
		Date:       strings.TrimSpace(req.Date),
		StartTime:  strings.TrimSpace(req.StartTime),
		Delta:      req.Delta,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
