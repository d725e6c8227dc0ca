package service

import (
	"context"
	"strings"
	"time"

	"github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("offering.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.BasePriceCents < 0 {
		return nil, domain.ErrInvalidBasePrice
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	var descriptionPtr *string
	if description := strings.TrimSpace(ptrToString(req.Description)); description != "" {
		descriptionPtr = &description
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	o := &domain.Offering{
		ID:             s.genID.Generate(),
		TenantID:       tenantID,
		Name:           name,
		Description:    descriptionPtr,
		BasePriceCents: req.BasePriceCents,
		Currency:       currency,
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Metadata != nil {
		o.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, o); err != nil {
		return nil, err
	}
	resp := s.toResponse(o)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	filter := domain.ListRequest{
		Name:    strings.TrimSpace(req.Name),
		Active:  req.Active,
		SortBy:  strings.TrimSpace(req.SortBy),
		OrderBy: strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, s.db, tenantID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			item.Description = nil
		} else {
			item.Description = &description
		}
	}
	if req.BasePriceCents != nil {
		if *req.BasePriceCents < 0 {
			return nil, domain.ErrInvalidBasePrice
		}
		item.BasePriceCents = *req.BasePriceCents
	}
	if req.Currency != nil {
		currency, err := normalizeCurrency(req.Currency)
		if err != nil {
			return nil, err
		}
		item.Currency = currency
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Archive(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Active = false
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) CreateVariant(ctx context.Context, offeringID string, req domain.CreateVariantRequest) (*domain.VariantResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	parentID, err := snowflake.ParseString(strings.TrimSpace(offeringID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	parent, err := s.repo.FindByID(ctx, s.db, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	v := &domain.OfferingVariant{
		ID:                 s.genID.Generate(),
		TenantID:           tenantID,
		OfferingID:         parentID,
		Name:               name,
		PriceModifierCents: req.PriceModifierCents,
		Active:             active,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateVariant(ctx, s.db, v); err != nil {
		return nil, err
	}
	resp := s.toVariantResponse(v)
	return &resp, nil
}

func (s *Service) ListVariants(ctx context.Context, offeringID string) ([]domain.VariantResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	parentID, err := snowflake.ParseString(strings.TrimSpace(offeringID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	parent, err := s.repo.FindByID(ctx, s.db, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.FindVariants(ctx, s.db, tenantID, parentID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.VariantResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toVariantResponse(&item))
	}
	return resp, nil
}

func (s *Service) toResponse(o *domain.Offering) domain.Response {
	resp := domain.Response{
		ID:             o.ID.String(),
		TenantID:       o.TenantID.String(),
		Name:           o.Name,
		Description:    o.Description,
		BasePriceCents: o.BasePriceCents,
		Currency:       o.Currency,
		Active:         o.Active,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if len(o.Metadata) > 0 {
		resp.Metadata = map[string]any(o.Metadata)
	}
	return resp
}

func (s *Service) toVariantResponse(v *domain.OfferingVariant) domain.VariantResponse {
	return domain.VariantResponse{
		ID:                 v.ID.String(),
		OfferingID:         v.OfferingID.String(),
		Name:               v.Name,
		PriceModifierCents: v.PriceModifierCents,
		Active:             v.Active,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func normalizeCurrency(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	currency := strings.ToUpper(strings.TrimSpace(*value))
	if currency == "" {
		return nil, nil
	}
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}
	return &currency, nil
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
