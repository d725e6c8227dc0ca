package service

import (
	"context"
	"strings"
	"time"

	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	OfferingRepo offeringdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	offeringRepo offeringdomain.Repository
	genID        *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("pricingrule.service"),
		repo:         p.Repo,
		offeringRepo: p.OfferingRepo,
		genID:        p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	offering, err := s.offeringRepo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, offeringdomain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	conditions := domain.Conditions{}
	if req.Conditions != nil {
		conditions = *req.Conditions
	}

	// All structural problems are collected before any write.
	if err := domain.Validate(req.PricingType, conditions, req.Pricing); err != nil {
		return nil, err
	}

	priority := 0
	if req.Priority != nil {
		priority = *req.Priority
	}

	var descriptionPtr *string
	if description := strings.TrimSpace(ptrToString(req.Description)); description != "" {
		descriptionPtr = &description
	}

	now := time.Now().UTC()
	rule := &domain.PricingRule{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		OfferingID:  offeringID,
		Name:        name,
		Description: descriptionPtr,
		PricingType: req.PricingType,
		Priority:    priority,
		Conditions:  datatypes.NewJSONType(conditions),
		Pricing:     datatypes.NewJSONType(req.Pricing),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, rule); err != nil {
		return nil, err
	}

	resp := toResponse(rule)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(rule)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	items, err := s.repo.List(ctx, s.db, tenantID, offeringID, req.IncludeInactive)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		rule.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			rule.Description = nil
		} else {
			rule.Description = &description
		}
	}
	if req.PricingType != nil {
		rule.PricingType = *req.PricingType
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}

	conditions := rule.Conditions.Data()
	if req.Conditions != nil {
		conditions = *req.Conditions
	}
	pricing := rule.Pricing.Data()
	if req.Pricing != nil {
		pricing = *req.Pricing
	}

	// Merged fields are re-validated as a whole before persisting.
	if err := domain.Validate(rule.PricingType, conditions, pricing); err != nil {
		return nil, err
	}

	rule.Conditions = datatypes.NewJSONType(conditions)
	rule.Pricing = datatypes.NewJSONType(pricing)
	rule.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, rule); err != nil {
		return nil, err
	}

	resp := toResponse(rule)
	return &resp, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}

	rule.IsActive = false
	rule.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("pricing rule deactivated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", rule.ID.String()),
	)

	resp := toResponse(rule)
	return &resp, nil
}

func toResponse(rule *domain.PricingRule) domain.Response {
	return domain.Response{
		ID:          rule.ID.String(),
		TenantID:    rule.TenantID.String(),
		OfferingID:  rule.OfferingID.String(),
		Name:        rule.Name,
		Description: rule.Description,
		PricingType: rule.PricingType,
		Priority:    rule.Priority,
		Conditions:  rule.Conditions.Data(),
		Pricing:     rule.Pricing.Data(),
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
