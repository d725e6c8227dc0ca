package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Archive(ctx context.Context, id string) (*Response, error)

	CreateVariant(ctx context.Context, offeringID string, req CreateVariantRequest) (*VariantResponse, error)
	ListVariants(ctx context.Context, offeringID string) ([]VariantResponse, error)
}

type ListRequest struct {
	Name    string
	Active  *bool
	SortBy  string
	OrderBy string
}

type CreateRequest struct {
	Name           string         `json:"name"`
	Description    *string        `json:"description"`
	BasePriceCents int64          `json:"base_price_cents"`
	Currency       *string        `json:"currency"`
	Active         *bool          `json:"active"`
	Metadata       map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID             string         `json:"-"`
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	BasePriceCents *int64         `json:"base_price_cents"`
	Currency       *string        `json:"currency"`
	Active         *bool          `json:"active"`
	Metadata       map[string]any `json:"metadata"`
}

type CreateVariantRequest struct {
	Name               string `json:"name"`
	PriceModifierCents int64  `json:"price_modifier_cents"`
	Active             *bool  `json:"active"`
}

type Response struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenant_id"`
	Name           string         `json:"name"`
	Description    *string        `json:"description,omitempty"`
	BasePriceCents int64          `json:"base_price_cents"`
	Currency       *string        `json:"currency,omitempty"`
	Active         bool           `json:"active"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type VariantResponse struct {
	ID                 string    `json:"id"`
	OfferingID         string    `json:"offering_id"`
	Name               string    `json:"name"`
	PriceModifierCents int64     `json:"price_modifier_cents"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidBasePrice = errors.New("invalid_base_price")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("offering_not_found")
)
