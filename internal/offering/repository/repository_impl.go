package repository

import (
	"context"

	"github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/pkg/db/option"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, offering *domain.Offering) error {
	return db.WithContext(ctx).Create(offering).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Offering, error) {
	var o domain.Offering
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, description, base_price_cents, currency, active, metadata, created_at, updated_at
		 FROM offerings WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListRequest) ([]domain.Offering, error) {
	var items []domain.Offering
	stmt := db.WithContext(ctx).
		Model(&domain.Offering{}).
		Where("tenant_id = ?", tenantID)

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	sort := option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	})
	if sort == "" {
		sort = "created_at ASC"
	}
	stmt = option.WithSortBy(sort).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, offering *domain.Offering) error {
	if offering == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE offerings
		 SET name = ?, description = ?, base_price_cents = ?, currency = ?, active = ?, metadata = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		offering.Name,
		offering.Description,
		offering.BasePriceCents,
		offering.Currency,
		offering.Active,
		offering.Metadata,
		offering.UpdatedAt,
		offering.TenantID,
		offering.ID,
	).Error
}

func (r *repo) CreateVariant(ctx context.Context, db *gorm.DB, variant *domain.OfferingVariant) error {
	return db.WithContext(ctx).Create(variant).Error
}

func (r *repo) FindVariants(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID) ([]domain.OfferingVariant, error) {
	var items []domain.OfferingVariant
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, offering_id, name, price_modifier_cents, active, created_at, updated_at
		 FROM offering_variants WHERE tenant_id = ? AND offering_id = ? ORDER BY created_at ASC`,
		tenantID,
		offeringID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
