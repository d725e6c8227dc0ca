package repository

import (
	"context"

	"github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, rule *domain.PricingRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID) ([]domain.PricingRule, error) {
	var items []domain.PricingRule
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ? AND is_active = ?", tenantID, offeringID, true).
		Order("priority ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, includeInactive bool) ([]domain.PricingRule, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ?", tenantID, offeringID)
	if !includeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}

	var items []domain.PricingRule
	if err := stmt.Order("priority ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *domain.PricingRule) error {
	if rule == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.PricingRule{}).
		Where("tenant_id = ? AND id = ?", rule.TenantID, rule.ID).
		Updates(map[string]any{
			"name":         rule.Name,
			"description":  rule.Description,
			"pricing_type": rule.PricingType,
			"priority":     rule.Priority,
			"conditions":   rule.Conditions,
			"pricing":      rule.Pricing,
			"is_active":    rule.IsActive,
			"updated_at":   rule.UpdatedAt,
		}).Error
}
