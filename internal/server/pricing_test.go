package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	pricingdomain "github.com/bookwise/bookwise/internal/pricing/domain"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

type fakePricingService struct {
	called   bool
	lastReq  pricingdomain.CalculationRequest
	tenantID int64
	result   *pricingdomain.CalculationResult
	err      error
}

func (f *fakePricingService) CalculatePrice(ctx context.Context, req pricingdomain.CalculationRequest) (*pricingdomain.CalculationResult, error) {
	f.called = true
	f.lastReq = req
	if id, ok := tenantctx.TenantIDFromContext(ctx); ok {
		f.tenantID = int64(id)
	}
	return f.result, f.err
}

func newPricingRouter(svc pricingdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{pricingSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/pricing/calculate", TenantRequired(), srv.CalculatePrice)
	return router
}

func TestCalculatePriceHandlerReturnsResult(t *testing.T) {
	svc := &fakePricingService{
		result: &pricingdomain.CalculationResult{
			OfferingID:      "101",
			Quantity:        2,
			Currency:        "USD",
			BasePriceCents:  2000,
			FinalPriceCents: 1600,
		},
	}
	router := newPricingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", bytes.NewBufferString(`{"offering_id":"101","quantity":2,"date":"2025-06-02","time":"16:00"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTenant, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !svc.called {
		t.Fatal("expected pricing service to be called")
	}
	if svc.tenantID != 42 {
		t.Fatalf("expected tenant 42 in context, got %d", svc.tenantID)
	}
	if svc.lastReq.OfferingID != "101" || svc.lastReq.Quantity != 2 {
		t.Fatalf("unexpected request forwarded to service: %+v", svc.lastReq)
	}

	var body struct {
		Data pricingdomain.CalculationResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.FinalPriceCents != 1600 {
		t.Fatalf("expected final price 1600, got %d", body.Data.FinalPriceCents)
	}
}

func TestCalculatePriceHandlerRequiresTenantHeader(t *testing.T) {
	svc := &fakePricingService{}
	router := newPricingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", bytes.NewBufferString(`{"offering_id":"101"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.called {
		t.Fatal("expected pricing service not to be called without tenant header")
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "invalid_tenant" {
		t.Fatalf("unexpected error payload: %+v", body.Error)
	}
}

func TestCalculatePriceHandlerRejectsMalformedBody(t *testing.T) {
	svc := &fakePricingService{}
	router := newPricingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", bytes.NewBufferString(`{"offering_id":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTenant, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.called {
		t.Fatal("expected pricing service not to be called for malformed body")
	}
}

func TestCalculatePriceHandlerMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "offering not found", err: offeringdomain.ErrNotFound, status: http.StatusNotFound},
		{name: "invalid quantity", err: pricingdomain.ErrInvalidQuantity, status: http.StatusBadRequest},
		{name: "calculation failure", err: pricingdomain.ErrCalculationFailed, status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newPricingRouter(&fakePricingService{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/v1/pricing/calculate", bytes.NewBufferString(`{"offering_id":"101"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(HeaderTenant, "42")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}
