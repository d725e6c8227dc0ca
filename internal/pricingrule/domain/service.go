package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	// Deactivate soft-deletes a rule. Rules are never physically removed.
	Deactivate(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	OfferingID  string      `json:"offering_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	PricingType PricingType `json:"pricing_type"`
	Priority    *int        `json:"priority"`
	Conditions  *Conditions `json:"conditions"`
	Pricing     Pricing     `json:"pricing"`
}

type UpdateRequest struct {
	ID          string      `json:"-"`
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	PricingType *PricingType `json:"pricing_type"`
	Priority    *int        `json:"priority"`
	Conditions  *Conditions `json:"conditions"`
	Pricing     *Pricing    `json:"pricing"`
}

type ListRequest struct {
	OfferingID      string
	IncludeInactive bool
}

type Response struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	OfferingID  string      `json:"offering_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	PricingType PricingType `json:"pricing_type"`
	Priority    int         `json:"priority"`
	Conditions  Conditions  `json:"conditions"`
	Pricing     Pricing     `json:"pricing"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidOffering = errors.New("invalid_offering")
	ErrInvalidName     = errors.New("invalid_name")
	ErrNotFound        = errors.New("pricing_rule_not_found")
)
