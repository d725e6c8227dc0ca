package domain

import (
	"context"
	"errors"
)

type Service interface {
	CalculatePrice(ctx context.Context, req CalculationRequest) (*CalculationResult, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidOffering   = errors.New("invalid_offering")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidDate       = errors.New("invalid_date")
	ErrInvalidTime       = errors.New("invalid_time")
	ErrCalculationFailed = errors.New("price_calculation_failed")
)
